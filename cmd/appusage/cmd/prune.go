package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var pruneOlderThan string

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete sessions that ended before a cutoff",
	Example: `  appusage prune --older-than 90d
  appusage prune --older-than 720h`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		age, err := parseAge(pruneOlderThan)
		if err != nil {
			return err
		}

		repo, closeDB, err := openRepository()
		if err != nil {
			return err
		}
		defer closeDB()

		cutoff := time.Now().Add(-age)
		n, err := repo.DeleteBefore(cutoff)
		if err != nil {
			return err
		}

		fmt.Printf("Deleted %d sessions that ended before %s\n", n, cutoff.Format(time.DateTime))
		return nil
	},
}

func init() {
	pruneCmd.Flags().StringVar(&pruneOlderThan, "older-than", "", `age cutoff, e.g. "90d" or "720h"`)
	_ = pruneCmd.MarkFlagRequired("older-than")
}

// parseAge accepts a time.Duration or a whole number of days with a "d" suffix.
func parseAge(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if days, ok := strings.CutSuffix(s, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil {
			return 0, fmt.Errorf("invalid age %q: %w", s, err)
		}
		s = strconv.Itoa(n*24) + "h"
	}

	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid age %q: %w", s, err)
	}
	if d <= 0 {
		return 0, errors.New("age must be positive")
	}
	return d, nil
}
