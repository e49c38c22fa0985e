package cron

import "testing"

func FuzzScheduleParser(f *testing.F) {
	f.Add("0 * * * *")   // memory sweep default
	f.Add("*/5 * * * *") // dedup purge default
	f.Add("30 6 * * 1")
	f.Add("* * * * *")
	f.Add("every hour")
	f.Add("")
	f.Add("61 * * * *")
	f.Add("* * * * * *")

	f.Fuzz(func(_ *testing.T, expr string) {
		// Bad expressions must come back as errors, never as panics.
		_, _ = scheduleParser.Parse(expr)
	})
}
