package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fogsong233/catter/internal/recorder"
)

var readCmd = &cobra.Command{
	Use:   "read <log-dir>",
	Short: "Print every recorded command and diagnostic under a log directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := args[0]
		entries, err := os.ReadDir(dir)
		if err != nil {
			return err
		}

		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			pid, tid, ok := recorder.ParseFileName(entry.Name())
			if !ok {
				continue
			}
			lines, err := recorder.ReadFile(dir + string(os.PathSeparator) + entry.Name())
			if err != nil {
				fmt.Fprintf(os.Stderr, "catter-collect: %s: %v\n", entry.Name(), err)
				continue
			}
			for _, line := range lines {
				kind := "cmd"
				if line.IsError {
					kind = "err"
				}
				fmt.Printf("[pid=%d tid=%d %s] %s\n", pid, tid, kind, line.Text)
			}
		}
		return nil
	},
}
