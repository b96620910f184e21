package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Berguit/topical-map-app/internal/app"
	"github.com/Berguit/topical-map-app/internal/domain"
	"github.com/Berguit/topical-map-app/internal/platform/shutdown"
	"github.com/Berguit/topical-map-app/internal/services"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "topicalmap",
		Short: "Build SEO topical maps from keyword data",
		Long: `topicalmap turns a main topic into a knowledge domain, a context
vector, an entity-attribute-value model and finally a topical map, using
Haloscan keyword data and an OpenRouter model.`,
		SilenceUsage: true,
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API (and the Temporal worker when configured)",
		RunE:  runServe,
	}

	workerCmd := &cobra.Command{
		Use:   "worker",
		Short: "Run only the Temporal generation worker",
		RunE:  runWorker,
	}

	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: "Run a generation step for an ad-hoc project and print the result as JSON",
		RunE:  runGenerate,
	}
	generateCmd.Flags().String("name", "", "Project name (defaults to the topic)")
	generateCmd.Flags().String("topic", "", "Main topic (required)")
	generateCmd.Flags().String("business-type", string(domain.BusinessOther), "Business type: ecommerce|saas|affiliate|blog|agency|local_business|other")
	generateCmd.Flags().String("audience", "", "Target audience")
	generateCmd.Flags().StringSlice("objective", nil, "Business objective (repeatable)")
	generateCmd.Flags().String("step", string(services.StepFullWithHaloscan), "Step to run")
	_ = generateCmd.MarkFlagRequired("topic")

	keywordsCmd := &cobra.Command{
		Use:   "keywords <seed>",
		Short: "Look up keyword data for a seed keyword",
		Args:  cobra.ExactArgs(1),
		RunE:  runKeywords,
	}
	keywordsCmd.Flags().String("action", string(services.ActionFull), "What to fetch: overview|questions|structure|full")

	rootCmd.AddCommand(serveCmd, workerCmd, generateCmd, keywordsCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := shutdown.NotifyContext(cmd.Context())
	defer stop()

	a, err := app.New(ctx, app.Options{})
	if err != nil {
		return err
	}
	defer a.Close()
	return a.Run(ctx)
}

func runWorker(cmd *cobra.Command, args []string) error {
	ctx, stop := shutdown.NotifyContext(cmd.Context())
	defer stop()

	a, err := app.New(ctx, app.Options{})
	if err != nil {
		return err
	}
	defer a.Close()
	return a.RunWorker(ctx)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx, stop := shutdown.NotifyContext(cmd.Context())
	defer stop()

	topic, _ := cmd.Flags().GetString("topic")
	name, _ := cmd.Flags().GetString("name")
	businessType, _ := cmd.Flags().GetString("business-type")
	audience, _ := cmd.Flags().GetString("audience")
	objectives, _ := cmd.Flags().GetStringSlice("objective")
	step, _ := cmd.Flags().GetString("step")

	project := domain.Project{
		Name:         strings.TrimSpace(name),
		MainTopic:    strings.TrimSpace(topic),
		BusinessType: domain.BusinessType(strings.TrimSpace(businessType)),
		Audience:     strings.TrimSpace(audience),
		Objectives:   objectives,
	}
	if project.Name == "" {
		project.Name = project.MainTopic
	}
	if !project.BusinessType.Valid() {
		return fmt.Errorf("invalid business type %q", businessType)
	}

	a, err := app.New(ctx, app.Options{LocalPipeline: true})
	if err != nil {
		return err
	}
	defer a.Close()

	res, err := a.Services.Generation.GenerateStateless(ctx, project, services.GenerateRequest{Step: step})
	if err != nil {
		return err
	}
	body := res.Response(res.Step)
	body["step"] = res.Step
	return printJSON(body)
}

func runKeywords(cmd *cobra.Command, args []string) error {
	ctx, stop := shutdown.NotifyContext(cmd.Context())
	defer stop()

	action, _ := cmd.Flags().GetString("action")

	a, err := app.New(ctx, app.Options{LocalPipeline: true})
	if err != nil {
		return err
	}
	defer a.Close()

	out, err := a.Services.Keywords.Research(ctx, args[0], action)
	if err != nil {
		return err
	}
	return printJSON(out)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
