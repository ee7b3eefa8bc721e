package main

import (
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/signalis/connector-cli/internal/model"
)

var enrichFlags struct {
	email     string
	firstName string
	lastName  string
	fullName  string
	title     string
	linkedin  string
	company   string
	domain    string
}

var enrichCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Enrich a single contact record from flags",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initEnrich()
		if err != nil {
			return err
		}

		record := &model.NormalizedRecord{
			RecordKey:   "cli:adhoc",
			FirstName:   enrichFlags.firstName,
			LastName:    enrichFlags.lastName,
			FullName:    enrichFlags.fullName,
			Email:       enrichFlags.email,
			Title:       enrichFlags.title,
			LinkedIn:    enrichFlags.linkedin,
			Company:     enrichFlags.company,
			Domain:      enrichFlags.domain,
			EmailSource: "cli",
		}
		if record.Domain != "" {
			record.DomainSource = model.DomainExplicit
		}

		result := env.Enricher.EnrichRecord(ctx, record)

		out := struct {
			Record *model.NormalizedRecord `json:"record"`
			Result *model.EnrichmentResult `json:"result"`
		}{record, result}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			return eris.Wrap(err, "encode result")
		}
		return nil
	},
}

func init() {
	f := enrichCmd.Flags()
	f.StringVar(&enrichFlags.email, "email", "", "existing email to verify")
	f.StringVar(&enrichFlags.firstName, "first-name", "", "contact first name")
	f.StringVar(&enrichFlags.lastName, "last-name", "", "contact last name")
	f.StringVar(&enrichFlags.fullName, "full-name", "", "contact full name")
	f.StringVar(&enrichFlags.title, "title", "", "contact job title")
	f.StringVar(&enrichFlags.linkedin, "linkedin", "", "contact LinkedIn URL")
	f.StringVar(&enrichFlags.company, "company", "", "company name")
	f.StringVar(&enrichFlags.domain, "domain", "", "company domain")
	rootCmd.AddCommand(enrichCmd)
}
