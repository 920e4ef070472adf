package main

import (
	"fmt"
	"strconv"
	"strings"

	"petworld/internal/app/contract"
	"petworld/internal/app/ports"
	"petworld/internal/domain/pet"

	"github.com/spf13/cobra"
)

func newPetCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pet",
		Short: "Read and act on pets in the contract",
	}
	cmd.AddCommand(
		newPetInfoCmd(opts),
		newPetListCmd(opts),
		newPetAchievementsCmd(opts),
		newPetMintCmd(opts),
		newPetActionCmd(opts, "feed", "Feed a pet"),
		newPetActionCmd(opts, "play", "Play with a pet"),
	)
	return cmd
}

func newPetInfoCmd(opts *rootOptions) *cobra.Command {
	var source string
	cmd := &cobra.Command{
		Use:   "info <token-id>",
		Short: "Show one pet's on-chain record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseTokenID(args[0])
			if err != nil {
				return err
			}
			e, err := loadEnv(opts)
			if err != nil {
				return err
			}
			r, err := e.reader()
			if err != nil {
				return err
			}
			rec, err := r.PetInfo(cmd.Context(), id, pick(source, e.cfg.Ledger.Source))
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), map[string]any{
				"token_id": id,
				"pet":      rec,
				"mood":     rec.Mood(),
			})
		},
	}
	cmd.Flags().StringVar(&source, "source", "", "account used to simulate the read (default ledger.source)")
	return cmd
}

func newPetListCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list <owner-address>",
		Short: "List the token ids owned by an address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(opts)
			if err != nil {
				return err
			}
			r, err := e.reader()
			if err != nil {
				return err
			}
			ids, err := r.UserPets(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if ids == nil {
				ids = []uint64{}
			}
			return printJSON(cmd.OutOrStdout(), map[string]any{"owner": args[0], "pet_ids": ids})
		},
	}
}

func newPetAchievementsCmd(opts *rootOptions) *cobra.Command {
	var source string
	cmd := &cobra.Command{
		Use:   "achievements <token-id>",
		Short: "List every achievement with the pet's earned flag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseTokenID(args[0])
			if err != nil {
				return err
			}
			e, err := loadEnv(opts)
			if err != nil {
				return err
			}
			r, err := e.achievements()
			if err != nil {
				return err
			}
			list, err := r.WithStatus(cmd.Context(), id, pick(source, e.cfg.Ledger.Source))
			if err != nil {
				return err
			}
			if list == nil {
				list = []pet.Achievement{}
			}
			return printJSON(cmd.OutOrStdout(), list)
		},
	}
	cmd.Flags().StringVar(&source, "source", "", "account used to simulate the read (default ledger.source)")
	return cmd
}

func newPetMintCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "mint <owner-address> <name>",
		Short: "Mint a new pet for owner",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, err := pet.ValidateName(args[1])
			if err != nil {
				return err
			}
			w, signer, err := writerAndSigner(opts)
			if err != nil {
				return err
			}
			res, err := w.Mint(cmd.Context(), name, args[0], signer)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}
}

func newPetActionCmd(opts *rootOptions, action, short string) *cobra.Command {
	return &cobra.Command{
		Use:   action + " <owner-address> <token-id>",
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseTokenID(args[1])
			if err != nil {
				return err
			}
			w, signer, err := writerAndSigner(opts)
			if err != nil {
				return err
			}
			var res contract.WriteResult
			switch action {
			case "feed":
				res, err = w.Feed(cmd.Context(), id, args[0], signer)
			default:
				res, err = w.Play(cmd.Context(), id, args[0], signer)
			}
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}
}

func writerAndSigner(opts *rootOptions) (contract.Writer, ports.Signer, error) {
	e, err := loadEnv(opts)
	if err != nil {
		return contract.Writer{}, nil, err
	}
	w, err := e.writer()
	if err != nil {
		return contract.Writer{}, nil, err
	}
	s, err := e.signer()
	if err != nil {
		return contract.Writer{}, nil, err
	}
	return w, s, nil
}

func parseTokenID(raw string) (uint64, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("token id must be a positive integer, got %q", raw)
	}
	return id, nil
}

func pick(v, fallback string) string {
	if strings.TrimSpace(v) != "" {
		return v
	}
	return fallback
}
