package metrics

import (
	"bufio"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// NvidiaSMIQuery is the field list requested from nvidia-smi, in column order.
const NvidiaSMIQuery = "name,utilization.gpu,memory.used,memory.total,temperature.gpu,power.draw,power.limit"

// DefaultGPUTimeout bounds a single nvidia-smi invocation.
const DefaultGPUTimeout = 750 * time.Millisecond

// GPUSource queries NVIDIA GPUs through nvidia-smi. Hosts without the binary
// or without a working driver report ErrUnavailable.
type GPUSource struct {
	timeout  time.Duration
	lookPath func(file string) (string, error)
	run      func(ctx context.Context, bin string, args ...string) ([]byte, error)

	bin     string
	missing bool
}

// NewGPUSource creates a GPU source with the given per-query timeout.
func NewGPUSource(timeout time.Duration) *GPUSource {
	if timeout <= 0 {
		timeout = DefaultGPUTimeout
	}
	return &GPUSource{
		timeout:  timeout,
		lookPath: exec.LookPath,
		run: func(ctx context.Context, bin string, args ...string) ([]byte, error) {
			return exec.CommandContext(ctx, bin, args...).Output()
		},
	}
}

// Sample runs nvidia-smi once and parses every GPU row.
func (s *GPUSource) Sample(ctx context.Context) ([]GPUStats, error) {
	if s.missing {
		return nil, fmt.Errorf("nvidia-smi not found: %w", ErrUnavailable)
	}
	if s.bin == "" {
		bin, err := s.lookPath("nvidia-smi")
		if err != nil {
			s.missing = true
			return nil, fmt.Errorf("nvidia-smi not found: %w", ErrUnavailable)
		}
		s.bin = bin
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	out, err := s.run(ctx, s.bin, "--query-gpu="+NvidiaSMIQuery, "--format=csv,noheader,nounits")
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("nvidia-smi timed out after %s", s.timeout)
		}
		// nvidia-smi exits non-zero when the driver is not loaded.
		return nil, fmt.Errorf("nvidia-smi failed (%v): %w", err, ErrUnavailable)
	}

	gpus, err := ParseNvidiaSMI(string(out))
	if err != nil {
		return nil, err
	}
	if len(gpus) == 0 {
		return nil, fmt.Errorf("no NVIDIA GPUs detected: %w", ErrUnavailable)
	}
	return gpus, nil
}

// ParseNvidiaSMI parses GPU metrics from nvidia-smi CSV output, one GPU per line.
// Expected input is from:
//
//	nvidia-smi --query-gpu=name,utilization.gpu,memory.used,memory.total,temperature.gpu,power.draw,power.limit --format=csv,noheader,nounits
//
// Returns an empty slice (no error) when the output indicates no GPU.
func ParseNvidiaSMI(output string) ([]GPUStats, error) {
	output = strings.TrimSpace(output)
	if output == "" {
		return nil, nil
	}

	lowerOutput := strings.ToLower(output)
	if strings.Contains(lowerOutput, "no devices") ||
		strings.Contains(lowerOutput, "not found") ||
		strings.Contains(lowerOutput, "failed") ||
		strings.Contains(lowerOutput, "error") {
		return nil, nil
	}

	var gpus []GPUStats
	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		gpu, err := parseNvidiaSMILine(line)
		if err != nil {
			return nil, err
		}
		gpus = append(gpus, gpu)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error scanning nvidia-smi output: %w", err)
	}
	return gpus, nil
}

// parseNvidiaSMILine parses one CSV row.
// Example: "NVIDIA GeForce RTX 3080, 45, 2048, 10240, 65, 220.50, 320.00"
func parseNvidiaSMILine(line string) (GPUStats, error) {
	fields := strings.Split(line, ",")
	if len(fields) < 6 {
		return GPUStats{}, fmt.Errorf("nvidia-smi output has insufficient fields: expected at least 6, got %d", len(fields))
	}
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}

	gpu := GPUStats{Name: fields[0]}

	if !notReported(fields[1]) {
		util, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return GPUStats{}, fmt.Errorf("failed to parse GPU utilization '%s': %w", fields[1], err)
		}
		gpu.UtilPercent = util
	}

	if !notReported(fields[2]) {
		used, err := strconv.ParseInt(fields[2], 10, 64)
		if err != nil {
			return GPUStats{}, fmt.Errorf("failed to parse GPU memory used '%s': %w", fields[2], err)
		}
		gpu.MemUsedMB = used
	}

	if !notReported(fields[3]) {
		total, err := strconv.ParseInt(fields[3], 10, 64)
		if err != nil {
			return GPUStats{}, fmt.Errorf("failed to parse GPU memory total '%s': %w", fields[3], err)
		}
		gpu.MemTotalMB = total
	}

	if !notReported(fields[4]) {
		temp, err := strconv.Atoi(fields[4])
		if err != nil {
			return GPUStats{}, fmt.Errorf("failed to parse GPU temperature '%s': %w", fields[4], err)
		}
		gpu.TempC = temp
	}

	// Power readings are optional on many boards; unparseable means unavailable.
	gpu.PowerWatts = parseOptionalFloat(fields[5])
	if len(fields) > 6 {
		gpu.PowerLimitWatts = parseOptionalFloat(fields[6])
	}

	return gpu, nil
}

func notReported(field string) bool {
	return field == "" || strings.HasPrefix(field, "[N/A") || strings.HasPrefix(field, "[Not Supported")
}

func parseOptionalFloat(field string) *float64 {
	if notReported(field) {
		return nil
	}
	v, err := strconv.ParseFloat(field, 64)
	if err != nil {
		return nil
	}
	return &v
}
