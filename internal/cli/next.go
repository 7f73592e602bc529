package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/watzon/tock"
)

var (
	nextCount    int
	nextFrom     string
	nextTimezone string
	nextStrict   bool
	nextJSON     bool
)

var nextCmd = &cobra.Command{
	Use:   "next <expression>",
	Short: "Print the next occurrences of an expression",
	Long: `Compile an expression and print its next occurrences.

Examples:
  tock next "0 30 9 * * MON-FRI"
  tock next "0 0 0 L * *" --count 6
  tock next "@daily" --from 2030-01-01T00:00:00Z --timezone Europe/Berlin`,
	Args: cobra.ExactArgs(1),
	RunE: runNext,
}

func init() {
	nextCmd.Flags().IntVarP(&nextCount, "count", "n", 3, "number of occurrences to print")
	nextCmd.Flags().StringVar(&nextFrom, "from", "", "reference instant (RFC3339; default: now)")
	nextCmd.Flags().StringVar(&nextTimezone, "timezone", "", "IANA timezone for evaluation")
	nextCmd.Flags().BoolVar(&nextStrict, "strict", false, "require day-of-month and day-of-week to both match")
	nextCmd.Flags().BoolVar(&nextJSON, "json", false, "emit JSON")

	rootCmd.AddCommand(nextCmd)
}

func runNext(cmd *cobra.Command, args []string) error {
	opts := []tock.Option{}
	if nextTimezone != "" {
		opts = append(opts, tock.WithTimezone(nextTimezone))
	}
	if nextStrict {
		opts = append(opts, tock.WithStrictDays())
	}

	sched, err := tock.New(args[0], opts...)
	if err != nil {
		return err
	}

	var from time.Time
	if nextFrom != "" {
		from, err = time.Parse(time.RFC3339, nextFrom)
		if err != nil {
			return fmt.Errorf("%w: %q is not RFC3339", tock.ErrInvalidReference, nextFrom)
		}
	}

	occurrences := sched.NextN(nextCount, from)

	if nextJSON {
		return json.NewEncoder(os.Stdout).Encode(map[string]any{
			"expression":  args[0],
			"occurrences": occurrences,
		})
	}

	if len(occurrences) == 0 {
		fmt.Println("no further occurrences")
		return nil
	}
	for _, at := range occurrences {
		fmt.Println(at.Format(time.RFC3339))
	}
	if len(occurrences) < nextCount {
		fmt.Printf("(schedule exhausted after %d)\n", len(occurrences))
	}
	return nil
}
