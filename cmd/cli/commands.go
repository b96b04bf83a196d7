package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/akeren/waitlist-api/domain/waitlist"
)

func parseMigrateArgs(args []string) (action string, steps int, err error) {
	if len(args) == 0 {
		return "up", 0, nil
	}

	switch args[0] {
	case "up", "version":
		return args[0], 0, nil
	case "down":
		if len(args) < 2 {
			return "", 0, fmt.Errorf("migrate down requires a step count")
		}
		steps, err := strconv.Atoi(args[1])
		if err != nil || steps < 1 {
			return "", 0, fmt.Errorf("invalid step count %q", args[1])
		}
		return "down", steps, nil
	default:
		return "", 0, fmt.Errorf("unknown migrate action: %s", args[0])
	}
}

func writeWaitlist(ctx context.Context, out io.Writer, repo waitlist.WaitlistRepository) error {
	entries, err := repo.ListEntries(ctx)
	if err != nil {
		return err
	}

	w := csv.NewWriter(out)
	if err := w.Write([]string{"id", "email", "signup_date"}); err != nil {
		return err
	}
	for _, entry := range entries {
		row := waitlist.ToWaitlistEntryResponse(entry)
		if err := w.Write([]string{strconv.FormatUint(uint64(row.ID), 10), row.Email, row.SignupDate}); err != nil {
			return err
		}
	}
	w.Flush()

	return w.Error()
}
