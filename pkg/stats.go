package pedestal

import (
	"fmt"
	"math"
	"strconv"

	"github.com/montanaflynn/stats"
)

const milli = 1e-3

// Experimental constants of the mock data generator. The hardware sum
// is charge normalized, integrated over a 2 ms helicity window of
// 15000 ADC samples at the nominal 100 uA beam current.
const (
	beamCurrent  = 100 // uA
	numSamples   = 15000
	windowLength = 2 * milli // seconds
)

// HwSum computes the mean and standard deviation of the hardware sum
// for one detector:
//
//	mean   = VoltPerHz * NormRate * current
//	stddev = sqrt(numSamples) * VoltPerHz / window
func (m *MapFile) HwSum(row string) (mean float64, stddev float64, err error) {
	voltPerHz, err := m.VoltPerHz(row)
	if err != nil {
		return 0, 0, err
	}
	normRate, err := m.NormRate(row)
	if err != nil {
		return 0, 0, err
	}
	mean = voltPerHz * float64(normRate) * beamCurrent
	stddev = math.Sqrt(numSamples) * voltPerHz / windowLength
	return mean, stddev, nil
}

// ColumnSummary holds distribution statistics over one numeric column.
type ColumnSummary struct {
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
	Median float64
}

// ColumnStats summarizes one column across every detector row. Every
// cell of the column must parse as a number.
func (m *MapFile) ColumnStats(column string) (ColumnSummary, error) {
	c, ok := m.colIndex[column]
	if !ok {
		return ColumnSummary{}, &ErrUnknownColumn{Column: column}
	}
	data := make([]float64, 0, len(m.entries))
	for row, cells := range m.entries {
		value, err := strconv.ParseFloat(cells[c], 64)
		if err != nil {
			return ColumnSummary{}, fmt.Errorf("cell [%s][%s] is not a number: %w", m.names[row], column, err)
		}
		data = append(data, value)
	}

	var summary ColumnSummary
	var err error
	if summary.Mean, err = stats.Mean(data); err != nil {
		return summary, err
	}
	if summary.StdDev, err = stats.StandardDeviation(data); err != nil {
		return summary, err
	}
	if summary.Min, err = stats.Min(data); err != nil {
		return summary, err
	}
	if summary.Max, err = stats.Max(data); err != nil {
		return summary, err
	}
	if summary.Median, err = stats.Median(data); err != nil {
		return summary, err
	}
	return summary, nil
}
