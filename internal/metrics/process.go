package metrics

import (
	"fmt"
	"os"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/process"
)

// ProcessReport потребление ресурсов процессом генерации
type ProcessReport struct {
	Elapsed    time.Duration
	CPUPercent float64
	RSSBytes   uint64
}

func (r ProcessReport) String() string {
	return fmt.Sprintf("время %s, CPU %.1f%%, RSS %.1f MB",
		FormatDuration(r.Elapsed), r.CPUPercent, float64(r.RSSBytes)/1024/1024)
}

// ProcessMonitor снимает показатели текущего процесса
type ProcessMonitor struct {
	start time.Time
	proc  *process.Process
}

// NewProcessMonitor запоминает время старта и открывает текущий процесс
func NewProcessMonitor() (*ProcessMonitor, error) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return nil, err
	}
	return &ProcessMonitor{start: time.Now(), proc: proc}, nil
}

// Report возвращает CPU и память процесса на текущий момент
func (m *ProcessMonitor) Report() (ProcessReport, error) {
	r := ProcessReport{Elapsed: time.Since(m.start)}

	cpuPercent, err := m.proc.CPUPercent()
	if err != nil {
		// Если не удалось получить метрику процесса, берём системную
		cpuPercents, sysErr := cpu.Percent(100*time.Millisecond, false)
		if sysErr != nil || len(cpuPercents) == 0 {
			return r, err
		}
		cpuPercent = cpuPercents[0]
	}
	r.CPUPercent = cpuPercent

	mem, err := m.proc.MemoryInfo()
	if err != nil {
		return r, err
	}
	r.RSSBytes = mem.RSS
	return r, nil
}

// FormatDuration форматирует длительность в виде "1м 5с" или "350мс"
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dмс", d.Milliseconds())
	}

	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	switch {
	case hours > 0:
		return fmt.Sprintf("%dч %dм %dс", hours, minutes, seconds)
	case minutes > 0:
		return fmt.Sprintf("%dм %dс", minutes, seconds)
	default:
		return fmt.Sprintf("%dс", seconds)
	}
}
