package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
)

var startTime = time.Now()

// Health reports service liveness plus a system snapshot
func (h *Handlers) Health(c *gin.Context) {
	resp := gin.H{
		"status":   "healthy",
		"uptime":   time.Since(startTime).String(),
		"entities": len(h.manager.Entities()),
	}

	if vm, err := mem.VirtualMemory(); err == nil {
		resp["memory_used_percent"] = vm.UsedPercent
	}
	if pct, err := cpu.Percent(0, false); err == nil && len(pct) > 0 {
		resp["cpu_percent"] = pct[0]
	}
	if up, err := host.Uptime(); err == nil {
		resp["host_uptime_seconds"] = up
	}

	c.JSON(http.StatusOK, resp)
}
