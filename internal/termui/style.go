// Package termui renders analytics views for the terminal.
package termui

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"taskodo/internal/analytics"
)

// Sprint color functions for building styled strings.
var (
	Bold       = color.New(color.Bold).SprintFunc()
	Dim        = color.New(color.Faint).SprintFunc()
	Cyan       = color.New(color.FgCyan).SprintFunc()
	Green      = color.New(color.FgGreen).SprintFunc()
	Red        = color.New(color.FgRed).SprintFunc()
	Yellow     = color.New(color.FgYellow).SprintFunc()
	BoldCyan   = color.New(color.Bold, color.FgCyan).SprintFunc()
	BoldGreen  = color.New(color.Bold, color.FgGreen).SprintFunc()
	BoldRed    = color.New(color.Bold, color.FgRed).SprintFunc()
	BoldYellow = color.New(color.Bold, color.FgYellow).SprintFunc()
)

// lineColors follows the board: line 1 is the priority lane.
var lineColors = map[int]func(a ...interface{}) string{
	1: BoldRed,
	2: BoldYellow,
	3: BoldCyan,
}

func LineLabel(line int) string {
	c, ok := lineColors[line]
	if !ok {
		return Dim(fmt.Sprintf("L%d", line))
	}
	return c(fmt.Sprintf("L%d", line))
}

func HealthBadge(h analytics.Health) string {
	switch h {
	case analytics.HealthLight:
		return Cyan(string(h))
	case analytics.HealthBalanced:
		return Green(string(h))
	case analytics.HealthHeavy:
		return Yellow(string(h))
	case analytics.HealthOverloaded:
		return BoldRed(string(h))
	default:
		return Dim(string(h))
	}
}

func InsightIcon(t analytics.InsightType) string {
	switch t {
	case analytics.InsightSuccess:
		return Green("✓")
	case analytics.InsightWarn:
		return Yellow("!")
	default:
		return Cyan("i")
	}
}

// CheckIcon marks a task as done or open for a day.
func CheckIcon(done bool) string {
	if done {
		return Green("✓")
	}
	return Dim("○")
}

// Bar draws rate in [0, 1] as a fixed-width bar.
func Bar(rate float64, width int) string {
	if width <= 0 {
		return ""
	}
	if rate < 0 {
		rate = 0
	}
	if rate > 1 {
		rate = 1
	}
	filled := int(rate*float64(width) + 0.5)
	c := Green
	switch {
	case rate < 0.5:
		c = Red
	case rate < 0.8:
		c = Yellow
	}
	return c(strings.Repeat("█", filled)) + Dim(strings.Repeat("░", width-filled))
}

// Percent matches the rounding of the shareable report.
func Percent(rate float64) string {
	return fmt.Sprintf("%d%%", int(rate*100+0.5))
}
