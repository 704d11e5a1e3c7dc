package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recorded analysis runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		runs, err := st.Runs().List()
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Println("No runs recorded.")
			return nil
		}

		fmt.Printf("%-36s  %-10s  %-20s  %s\n", "ID", "Status", "Created", "Video")
		for _, run := range runs {
			fmt.Printf("%-36s  %-10s  %-20s  %s\n",
				run.ID, run.Status, run.CreatedAt.Format("2006-01-02 15:04:05"), run.VideoURL)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runsCmd)
}
