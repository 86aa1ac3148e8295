package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"jobtrack/internal/store"
)

func newJobsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "Manage the local job list",
	}
	cmd.AddCommand(
		newJobsAddCmd(),
		newJobsUpdateCmd(),
		newJobsNoteCmd(),
		newJobsListCmd(),
		newJobsClearCmd(),
	)
	return cmd
}

func newJobsAddCmd() *cobra.Command {
	var in store.JobInput

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a job",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			j := a.jobs.AddJob(in)
			fmt.Printf("created job %s\n", j.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&in.Title, "title", "", "job title")
	cmd.Flags().StringVar(&in.Description, "description", "", "description")
	cmd.Flags().StringVar(&in.Client, "client", "", "client name")
	cmd.Flags().StringVar(&in.Location, "location", "", "location")
	cmd.Flags().StringVar(&in.Budget, "budget", "", "budget (number; invalid input becomes 0)")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newJobsUpdateCmd() *cobra.Command {
	var title, description, client, location, budget string

	cmd := &cobra.Command{
		Use:   "update <job-id>",
		Short: "Change fields on a job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			var upd store.JobUpdate
			if cmd.Flags().Changed("title") {
				upd.Title = &title
			}
			if cmd.Flags().Changed("description") {
				upd.Description = &description
			}
			if cmd.Flags().Changed("client") {
				upd.Client = &client
			}
			if cmd.Flags().Changed("location") {
				upd.Location = &location
			}
			if cmd.Flags().Changed("budget") {
				upd.Budget = &budget
			}

			if !a.jobs.UpdateJob(args[0], upd) {
				fmt.Printf("no job with id %s\n", args[0])
				return nil
			}
			fmt.Println("updated")
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "job title")
	cmd.Flags().StringVar(&description, "description", "", "description")
	cmd.Flags().StringVar(&client, "client", "", "client name")
	cmd.Flags().StringVar(&location, "location", "", "location")
	cmd.Flags().StringVar(&budget, "budget", "", "budget")
	return cmd
}

func newJobsNoteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "note <job-id> <text>",
		Short: "Attach a note to a job",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			// blank notes are rejected here, not in the store
			if strings.TrimSpace(args[1]) == "" {
				return fmt.Errorf("note text is empty")
			}

			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			if !a.jobs.AddNote(args[0], args[1]) {
				fmt.Printf("no job with id %s\n", args[0])
				return nil
			}
			fmt.Println("noted")
			return nil
		},
	}
}

func newJobsListCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List jobs, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			jobs := a.jobs.FormattedJobs()
			if asJSON {
				printJSON(jobs)
				return nil
			}
			if len(jobs) == 0 {
				fmt.Println("no jobs yet")
				return nil
			}
			for _, j := range jobs {
				fmt.Printf("%s  %-24s %-16s %-10s %s  [%s]\n",
					j.ID, j.Title, j.Client, j.DisplayPrice, j.DisplayDate, j.Status)
				for _, n := range j.Notes {
					fmt.Printf("    - %s\n", n.Text)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print raw JSON")
	return cmd
}

func newJobsClearCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every job",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("refusing to clear without --yes")
			}
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			a.jobs.ClearJobs()
			fmt.Println("cleared")
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm deletion")
	return cmd
}
