package procfs

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/procpulse/procpulse/internal/model"
)

// loadAvgInto fills the load triple from /proc/loadavg, best-effort.
func (s *Source) loadAvgInto(sys *model.SysCounters) {
	data, err := os.ReadFile(filepath.Join(s.Root, "loadavg"))
	if err != nil {
		return
	}
	fields := strings.Fields(string(data))
	if len(fields) < 3 {
		return
	}
	sys.Load1, _ = strconv.ParseFloat(fields[0], 64)
	sys.Load5, _ = strconv.ParseFloat(fields[1], 64)
	sys.Load15, _ = strconv.ParseFloat(fields[2], 64)
}

// uptimeInto fills uptime seconds from /proc/uptime, best-effort.
func (s *Source) uptimeInto(sys *model.SysCounters) {
	data, err := os.ReadFile(filepath.Join(s.Root, "uptime"))
	if err != nil {
		return
	}
	fields := strings.Fields(string(data))
	if len(fields) < 1 {
		return
	}
	sys.UptimeSec, _ = strconv.ParseFloat(fields[0], 64)
}

// Temps reads thermal zone sensors from sysfs. Sensors are optional
// hardware; any read failure just omits that zone.
func (s *Source) Temps() []model.Temp {
	paths, _ := filepath.Glob(filepath.Join(s.SysRoot, "class/thermal/thermal_zone*/temp"))
	var temps []model.Temp
	for _, p := range paths {
		b, err := os.ReadFile(p)
		if err != nil {
			continue
		}
		milli, err := strconv.ParseFloat(strings.TrimSpace(string(b)), 64)
		if err != nil {
			continue
		}
		zone := filepath.Base(filepath.Dir(p))
		if tb, err := os.ReadFile(filepath.Join(filepath.Dir(p), "type")); err == nil {
			if t := strings.TrimSpace(string(tb)); t != "" {
				zone = t
			}
		}
		temps = append(temps, model.Temp{Zone: zone, Temp: milli / 1000})
	}
	return temps
}
