package main

import (
	"context"
	"fmt"
	"strconv"

	"backlog/internal/domain"
	"backlog/internal/service"
	"backlog/internal/view"

	"github.com/spf13/cobra"
)

// initializer is implemented by stores that can create an empty state
type initializer interface {
	Init(ctx context.Context) (bool, error)
}

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create an empty state if none exists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if store, ok := a.repo.(initializer); ok {
				created, err := store.Init(cmd.Context())
				if err != nil {
					return err
				}
				if !created {
					fmt.Fprintf(out, "State already exists at %s\n", a.cfg.Storage.Path)
					return nil
				}
				fmt.Fprintf(out, "Created empty state at %s\n", a.cfg.Storage.Path)
				return nil
			}

			if _, err := a.tracker.ReadState(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(out, "%s\n", a.cfg.Summary())
			return nil
		},
	}
}

func newBoardCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "board",
		Short: "List all epics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			state, err := a.tracker.ReadState(cmd.Context())
			if err != nil {
				return err
			}
			return view.RenderBoard(cmd.OutOrStdout(), state)
		},
	}
}

func newEpicCmd(a *app) *cobra.Command {
	epicCmd := &cobra.Command{
		Use:   "epic",
		Short: "Create, show, update and delete epics",
	}

	var description string
	createCmd := &cobra.Command{
		Use:   "create [name]",
		Short: "Create an epic",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := a.tracker.CreateEpic(cmd.Context(), *domain.NewEpic(args[0], description))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created epic %d\n", id)
			return nil
		},
	}
	createCmd.Flags().StringVarP(&description, "description", "d", "", "epic description")

	showCmd := &cobra.Command{
		Use:   "show [epic-id]",
		Short: "Show an epic and its stories",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("epic", args[0])
			if err != nil {
				return err
			}
			state, err := a.tracker.ReadState(cmd.Context())
			if err != nil {
				return err
			}
			epic, ok := state.Epics[id]
			if !ok {
				return fmt.Errorf("epic %d: %w", id, service.ErrEpicNotFound)
			}
			return view.RenderEpic(cmd.OutOrStdout(), id, epic, state)
		},
	}

	deleteCmd := &cobra.Command{
		Use:   "delete [epic-id]",
		Short: "Delete an epic and all of its stories",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("epic", args[0])
			if err != nil {
				return err
			}
			if err := a.tracker.DeleteEpic(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted epic %d\n", id)
			return nil
		},
	}

	statusCmd := &cobra.Command{
		Use:   "status [epic-id] [status]",
		Short: "Set the status of an epic",
		Long:  "Status is one of open, in-progress, resolved or closed.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("epic", args[0])
			if err != nil {
				return err
			}
			status, err := domain.ParseStatus(args[1])
			if err != nil {
				return err
			}
			if err := a.tracker.UpdateEpicStatus(cmd.Context(), id, status); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Epic %d is now %s\n", id, status.Label())
			return nil
		},
	}

	epicCmd.AddCommand(createCmd, showCmd, deleteCmd, statusCmd)
	return epicCmd
}

func newStoryCmd(a *app) *cobra.Command {
	storyCmd := &cobra.Command{
		Use:   "story",
		Short: "Create, show, update and delete stories",
	}

	var description string
	createCmd := &cobra.Command{
		Use:   "create [epic-id] [name]",
		Short: "Create a story under an epic",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			epicID, err := parseID("epic", args[0])
			if err != nil {
				return err
			}
			id, err := a.tracker.CreateStory(cmd.Context(), *domain.NewStory(args[1], description), epicID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created story %d in epic %d\n", id, epicID)
			return nil
		},
	}
	createCmd.Flags().StringVarP(&description, "description", "d", "", "story description")

	showCmd := &cobra.Command{
		Use:   "show [story-id]",
		Short: "Show a story",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("story", args[0])
			if err != nil {
				return err
			}
			story, err := a.tracker.GetStory(cmd.Context(), id)
			if err != nil {
				return err
			}
			return view.RenderStory(cmd.OutOrStdout(), id, story)
		},
	}

	deleteCmd := &cobra.Command{
		Use:   "delete [epic-id] [story-id]",
		Short: "Delete a story from an epic",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			epicID, err := parseID("epic", args[0])
			if err != nil {
				return err
			}
			storyID, err := parseID("story", args[1])
			if err != nil {
				return err
			}
			if err := a.tracker.DeleteStory(cmd.Context(), epicID, storyID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted story %d from epic %d\n", storyID, epicID)
			return nil
		},
	}

	statusCmd := &cobra.Command{
		Use:   "status [story-id] [status]",
		Short: "Set the status of a story",
		Long:  "Status is one of open, in-progress, resolved or closed.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("story", args[0])
			if err != nil {
				return err
			}
			status, err := domain.ParseStatus(args[1])
			if err != nil {
				return err
			}
			if err := a.tracker.UpdateStoryStatus(cmd.Context(), id, status); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Story %d is now %s\n", id, status.Label())
			return nil
		},
	}

	storyCmd.AddCommand(createCmd, showCmd, deleteCmd, statusCmd)
	return storyCmd
}

func parseID(kind, arg string) (uint32, error) {
	id, err := strconv.ParseUint(arg, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid %s id %q", kind, arg)
	}
	return uint32(id), nil
}
