package handlers

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/lore-chrono/internal/domain/flexidate"
	"github.com/ersonp/lore-chrono/internal/infrastructure/config"
)

func TestCalcHandler_Normalize(t *testing.T) {
	handler := NewCalcHandler(config.EraStyleSigned)

	results := handler.Normalize([]string{"44 BC", "41? BC", "P1Y2M", "P21Y/P39Y", "ca. 2020-05", "44"})
	require.Len(t, results, 6)

	assert.Equal(t, NormalizeResult{
		Input:     "44 BC",
		Kind:      KindDate,
		Canonical: "-0044",
		Display:   "-0044",
		Earliest:  "-0044-01-01",
		Latest:    "-0044-12-31",
		Precision: "year",
	}, results[0])

	assert.Equal(t, KindDateRange, results[1].Kind)
	assert.Equal(t, "-0419/-0410", results[1].Canonical)
	assert.Equal(t, "-0419-01-01", results[1].Earliest)
	assert.Equal(t, "-0410-12-31", results[1].Latest)

	assert.Equal(t, KindTimeSpan, results[2].Kind)
	assert.Equal(t, "P1Y2M", results[2].Canonical)

	assert.Equal(t, KindTimeSpanRange, results[3].Kind)
	assert.Equal(t, "P21Y/P39Y", results[3].Canonical)

	assert.Equal(t, "year-month, circa", results[4].Precision)
	assert.Equal(t, "ca. 2020-05", results[4].Canonical)

	require.Error(t, results[5].Err)
	assert.True(t, errors.Is(results[5].Err, flexidate.ErrParse))
	assert.Empty(t, results[5].Canonical)
}

func TestCalcHandler_Normalize_EraStyle(t *testing.T) {
	handler := NewCalcHandler(config.EraStyleBC)

	results := handler.Normalize([]string{"-0044", "-0044/0014"})

	assert.Equal(t, "44 BC", results[0].Display)
	assert.Equal(t, "-0044", results[0].Canonical)
	assert.Equal(t, "44 BC/0014", results[1].Display)
}

func TestCalcHandler_Add(t *testing.T) {
	tests := []struct {
		name     string
		date     string
		span     string
		expected string
	}{
		{name: "month rolls over", date: "2020-01-31", span: "P1M", expected: "2020-03-02"},
		{name: "bc to ad", date: "44 BC", span: "P58Y", expected: "0014"},
		{name: "span range", date: "2020", span: "P1Y/P2Y", expected: "2021/2022"},
		{name: "date range", date: "2020/2021", span: "P1Y", expected: "2021/2022"},
		{name: "date range and span range", date: "2020/2021", span: "P1Y/P2Y", expected: "2021/2023"},
		{name: "decade stays a decade", date: "41?", span: "P10Y", expected: "42?"},
		{name: "decade off boundary becomes range", date: "41? BC", span: "P3Y", expected: "-0416/-0407"},
		{name: "ad decade off boundary", date: "41?", span: "P5Y", expected: "0415/0424"},
		{name: "negative span", date: "2020-03-01", span: "-P1D", expected: "2020-02-29"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewCalcHandler(config.EraStyleSigned)

			v, err := handler.Add(tt.date, tt.span)

			require.NoError(t, err)
			assert.Equal(t, tt.expected, v.String())
		})
	}
}

func TestCalcHandler_Add_Errors(t *testing.T) {
	handler := NewCalcHandler(config.EraStyleSigned)

	for _, args := range [][2]string{{"44", "P1Y"}, {"2020", "P1X"}, {"2020/2019", "P1Y"}, {"2020", "P2Y/P1Y"}} {
		_, err := handler.Add(args[0], args[1])
		assert.Error(t, err, "%v", args)
	}
}

func TestCalcHandler_Diff(t *testing.T) {
	tests := []struct {
		name     string
		from     string
		to       string
		expected string
	}{
		{name: "exact days", from: "-0044-03-15", to: "0014-08-19", expected: "P58Y5M4D"},
		{name: "backwards", from: "0014", to: "-0044", expected: "-P58Y"},
		{name: "uncertain decade", from: "41? BC", to: "0014", expected: "P424Y/P433Y"},
		{name: "from range", from: "2020/2021", to: "2030", expected: "P9Y/P10Y"},
		{name: "to range", from: "2030", to: "2020/2021", expected: "-P10Y/-P9Y"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewCalcHandler(config.EraStyleSigned)

			v, err := handler.Diff(tt.from, tt.to)

			require.NoError(t, err)
			assert.Equal(t, tt.expected, v.String())
		})
	}
}

func TestCalcHandler_Span(t *testing.T) {
	tests := []struct {
		name     string
		op       string
		a        string
		b        string
		expected string
	}{
		{name: "add spans", op: "add", a: "P1Y", b: "P2M", expected: "P1Y2M"},
		{name: "sub spans keeps components", op: "sub", a: "P1Y", b: "P2M", expected: "P1Y-2M"},
		{name: "add range and span", op: "add", a: "P1Y/P2Y", b: "P10Y", expected: "P11Y/P12Y"},
		{name: "sub ranges", op: "sub", a: "P10Y/P20Y", b: "P1Y/P2Y", expected: "P8Y/P19Y"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewCalcHandler(config.EraStyleSigned)

			v, err := handler.Span(tt.op, tt.a, tt.b)

			require.NoError(t, err)
			assert.Equal(t, tt.expected, v.String())
		})
	}
}

func TestCalcHandler_Span_Errors(t *testing.T) {
	handler := NewCalcHandler(config.EraStyleSigned)

	_, err := handler.Span("mul", "P1Y", "P1Y")
	assert.Error(t, err)

	_, err = handler.Span("add", "P1Y", "2020")
	assert.Error(t, err)
}

func TestCalcHandler_Compare(t *testing.T) {
	tests := []struct {
		name     string
		a        string
		b        string
		expected CompareResult
	}{
		{
			name:     "year contains day",
			a:        "2020",
			b:        "2020-05-01",
			expected: CompareResult{Order: -1, AContainsB: true, Overlapping: true},
		},
		{
			name:     "identical",
			a:        "2020",
			b:        "2020",
			expected: CompareResult{Order: 0, AContainsB: true, BContainsA: true, Overlapping: true},
		},
		{
			name:     "circa sorts after exact",
			a:        "2020",
			b:        "ca. 2020",
			expected: CompareResult{Order: -1, AContainsB: true, BContainsA: true, Overlapping: true},
		},
		{
			name:     "disjoint",
			a:        "2021",
			b:        "44 BC",
			expected: CompareResult{Order: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewCalcHandler(config.EraStyleSigned)

			result, err := handler.Compare(tt.a, tt.b)

			require.NoError(t, err)
			assert.Equal(t, tt.expected, *result)
		})
	}
}
