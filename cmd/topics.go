package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ObiAU/smartpost/internal/aggregator"
	"github.com/ObiAU/smartpost/internal/logging"
	"github.com/ObiAU/smartpost/internal/models"
)

var (
	flagQuery   string
	flagRefresh bool
	flagDeep    bool
)

var trendingCmd = &cobra.Command{
	Use:   "trending",
	Short: "List trending topics for the configured niche",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		defer logging.Close()

		topics := aggregator.NewTopicService(cfg).GetTrendingTopics(cmd.Context(), strings.TrimSpace(flagQuery), flagRefresh)
		printTopics(cmd.OutOrStdout(), topics)
		return nil
	},
}

var researchCmd = &cobra.Command{
	Use:   "research <title>",
	Short: "Gather supporting articles for a topic",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		defer logging.Close()

		depth := models.DepthStandard
		if flagDeep {
			depth = models.DepthDeep
		}
		topic := models.Topic{Title: strings.Join(args, " ")}
		bundle := aggregator.NewTopicService(cfg).GetTopicResearch(cmd.Context(), topic, depth)
		printResearch(cmd.OutOrStdout(), bundle)
		return nil
	},
}

func init() {
	trendingCmd.Flags().StringVarP(&flagQuery, "query", "q", "", "search a specific topic instead of browsing")
	trendingCmd.Flags().BoolVar(&flagRefresh, "refresh", false, "bypass the topic cache")
	researchCmd.Flags().BoolVar(&flagDeep, "deep", false, "fetch more supporting articles")
}

func printTopics(w io.Writer, topics []models.Topic) {
	if len(topics) == 0 {
		fmt.Fprintln(w, "No topics found.")
		return
	}
	for i, t := range topics {
		fmt.Fprintf(w, "%2d. [%3d] %s\n", i+1, t.TrendScore, t.Title)
		fmt.Fprintf(w, "          %s", t.Source)
		if t.Category != "" {
			fmt.Fprintf(w, " · %s", t.Category)
		}
		fmt.Fprintln(w)
		if t.URL != "" {
			fmt.Fprintf(w, "          %s\n", t.URL)
		}
	}
}

func printResearch(w io.Writer, bundle models.ResearchBundle) {
	fmt.Fprintf(w, "%s (%s)\n\n", bundle.Topic, bundle.Depth)
	fmt.Fprintln(w, bundle.Summary)
	if len(bundle.Articles) == 0 {
		return
	}
	fmt.Fprintln(w)
	for _, a := range bundle.Articles {
		fmt.Fprintf(w, "- %s [%s]\n", a.Title, a.Source)
		if a.URL != "" {
			fmt.Fprintf(w, "  %s\n", a.URL)
		}
	}
}
