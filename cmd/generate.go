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
	flagLength string
	flagTone   string
	flagFormat string
	flagImage  bool
)

var generateCmd = &cobra.Command{
	Use:   "generate <title>",
	Short: "Research a topic, draft a blog post and save it as an article",
	Long: `Research a topic, draft a blog post with OpenAI and save it as a draft article.

Options left empty fall back to the stored settings. Without a valid OpenAI key
the fallback outline is saved instead.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		defer logging.Close()

		agg, err := aggregator.NewBatch(cfg)
		if err != nil {
			return err
		}
		defer agg.Close()

		topic := models.Topic{Title: strings.Join(args, " ")}
		opts := models.GenerateOptions{Tone: flagTone, Length: flagLength, Format: flagFormat}
		articles, err := agg.GenerateBatch(cmd.Context(), []models.Topic{topic}, opts, flagImage)
		if err != nil {
			return fmt.Errorf("generating article: %w", err)
		}
		for _, a := range articles {
			printArticle(cmd.OutOrStdout(), a)
		}
		return nil
	},
}

func init() {
	generateCmd.Flags().StringVar(&flagLength, "length", "", "short, medium or long")
	generateCmd.Flags().StringVar(&flagTone, "tone", "", "writing tone, e.g. professional or casual")
	generateCmd.Flags().StringVar(&flagFormat, "format", "", "blog-post, listicle, how-to or opinion")
	generateCmd.Flags().BoolVar(&flagImage, "image", false, "also generate a header image")
}

func printArticle(w io.Writer, a models.Article) {
	fmt.Fprintf(w, "Saved article %s\n", a.ID)
	fmt.Fprintf(w, "  Headline: %s\n", a.Post.Headline)
	fmt.Fprintf(w, "  Words:    %d (%s)\n", a.Post.WordCount, a.Post.ReadingTime)
	fmt.Fprintf(w, "  Model:    %s\n", a.Post.Model)
	if a.Post.IsFallback() {
		fmt.Fprintf(w, "  Note:     %s\n", a.Post.Note)
	}
	if a.ImageURL != "" {
		fmt.Fprintf(w, "  Image:    %s\n", a.ImageURL)
	}
}
