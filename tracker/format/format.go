// Package format renders durations, byte counts and integers the way the
// console subscribers print them.
package format

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Seconds formats d as MM:SS, or H:MM:SS once it exceeds one hour. Fractions
// of a second are truncated.
func Seconds(d time.Duration) string {
	return HMS(int64(d / time.Second))
}

// HMS formats a number of seconds as MM:SS, prefixing grouped hours only when
// the value is above 3600. Use it for spans too long for a time.Duration.
func HMS(seconds int64) string {
	seconds = max(seconds, 0)

	parts := make([]string, 0, 3)
	if seconds > 3600 {
		parts = append(parts, Number(seconds/3600))
		seconds %= 3600
	}
	parts = append(parts, fmt.Sprintf("%02d", seconds/60), fmt.Sprintf("%02d", seconds%60))
	return strings.Join(parts, ":")
}

type unit struct {
	size   float64
	suffix string
}

var units = []unit{
	{1e12, "TB"},
	{1e9, "GB"},
	{1e6, "MB"},
	{1e3, "KB"},
	{1, "B"},
}

// Bytes formats n with the largest decimal unit it reaches, grouping the
// integer part and keeping exactly decimals fraction digits.
func Bytes(n float64, decimals int) string {
	decimals = max(decimals, 0)
	for _, u := range units {
		if n >= u.size {
			return decimal(n/u.size, decimals) + u.suffix
		}
	}
	return decimal(n, decimals) + "B"
}

// Number formats n with comma thousands separators.
func Number(n int64) string {
	return printer.Sprintf("%d", n)
}

func decimal(v float64, decimals int) string {
	return printer.Sprintf(fmt.Sprintf("%%.%df", decimals), v)
}
