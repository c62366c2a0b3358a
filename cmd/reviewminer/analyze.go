package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/IshaanNene/ReviewMiner/internal/analysis"
	"github.com/IshaanNene/ReviewMiner/internal/report"
	"github.com/IshaanNene/ReviewMiner/internal/sentiment"
	"github.com/IshaanNene/ReviewMiner/internal/storage"
	"github.com/IshaanNene/ReviewMiner/internal/topic"
	"github.com/IshaanNene/ReviewMiner/internal/types"
	"github.com/IshaanNene/ReviewMiner/internal/visualize"
)

// Visualization artifacts of a run.
const (
	wordCloudFile          = "wordcloud.png"
	topicDistributionFile  = "topic_distribution.png"
	topicHTMLFile          = "lda_visualization.html"
	sentimentDonutFile     = "sentiment_distribution.png"
	sentimentHistogramFile = "sentiment_scores.png"
	positiveCloudFile      = "positive_wordcloud.png"
	negativeCloudFile      = "negative_wordcloud.png"

	// logTopWords is how many terms are logged when the word cloud fails.
	logTopWords = 20
)

var (
	wordFreqHeader = []string{"词语", "频次"}
	topicHeader    = []string{"主题ID", "主题词", "文档占比"}
)

// analyzeCmd creates the "analyze" subcommand.
func analyzeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze <comments.txt>",
		Short: "Analyse a saved comment file",
		Long:  "Run segmentation, topic modeling, sentiment scoring and charting over a comment file (one comment per line) in a new run directory.",
		Args:  cobra.ExactArgs(1),
		RunE:  runAnalyze,
	}
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig()
	if err != nil {
		consoleLogger(nil).Error("configuration error", "error", err)
		return err
	}

	renderer, err := visualize.NewRenderer(cfg.Visualization, consoleLogger(cfg))
	if err != nil {
		return err
	}

	sess, err := newSession(cfg)
	if err != nil {
		return err
	}
	defer sess.close()

	ctx, stop := signalContext(cmd.Context())
	defer stop()

	comments, err := storage.ReadComments(args[0], sess.run.Name)
	if err != nil {
		return fmt.Errorf("read comments: %w", err)
	}
	if len(comments) == 0 {
		sess.logger.Error("comment file is empty", "path", args[0])
		return fmt.Errorf("%s: %w", args[0], types.ErrNoComments)
	}
	sess.logger.Info("comments loaded", "path", args[0], "count", len(comments))

	records := sess.analyze(ctx, renderer, comments, cmd.OutOrStdout())
	sess.export(ctx, &storage.RunDocument{
		Run:       sess.run.Name,
		CreatedAt: time.Now().UTC(),
		Status:    "ANALYZED",
		Comments:  comments,
		Sentiment: records,
	})
	return nil
}

// analyze runs every analysis stage over comments and writes the artifacts
// into the session's run directory. A failing stage is logged and only its
// dependent artifacts are skipped. The sentiment records are returned for
// export.
func (s *session) analyze(ctx context.Context, r *visualize.Renderer, comments []types.Comment, out io.Writer) []types.Record {
	if err := storage.WriteComments(s.run.CommentsPath(), comments); err != nil {
		s.stageFailed("comments", err)
	} else {
		s.logger.Info("comments saved", "path", s.run.CommentsPath(), "count", len(comments))
	}

	if ctx.Err() != nil {
		s.logger.Warn("analysis skipped", "error", ctx.Err())
		return nil
	}

	texts := make([]string, len(comments))
	for i, c := range comments {
		texts[i] = c.Text
	}

	seg, err := analysis.NewSegmenter(s.cfg.Analysis, s.logger)
	if err != nil {
		s.stageFailed("segmentation", err)
	} else {
		s.frequencies(r, seg, texts)
		if ctx.Err() == nil {
			s.topics(r, seg, texts)
		}
	}

	if ctx.Err() != nil {
		s.logger.Warn("analysis interrupted", "error", ctx.Err())
		return nil
	}
	return s.sentiment(r, seg, comments, out)
}

func (s *session) frequencies(r *visualize.Renderer, seg *analysis.Segmenter, texts []string) {
	freq := seg.Frequencies(texts)
	if len(freq) == 0 {
		s.stageFailed("frequency", types.ErrEmptyCorpus)
		return
	}

	path := s.run.WordFreqPath()
	if err := storage.WriteCSV(path, wordFreqHeader, freq.Records(0)); err != nil {
		s.stageFailed("frequency", err)
	} else {
		s.logger.Info("word frequencies saved", "path", path, "terms", len(freq), "tokens", freq.Total())
	}
	for _, tc := range freq.MostCommon(s.cfg.Analysis.TopWordsCount) {
		s.logger.Debug("top word", "term", tc.Term, "count", tc.Count)
	}

	cloud := s.run.VisualizationPath(wordCloudFile)
	if err := r.WordCloud(cloud, freq); err != nil {
		s.stageFailed("wordcloud", err)
		for _, tc := range freq.MostCommon(logTopWords) {
			s.logger.Info("top word", "term", tc.Term, "count", tc.Count)
		}
		return
	}
	s.logger.Info("word cloud saved", "path", cloud)
}

func (s *session) topics(r *visualize.Renderer, seg *analysis.Segmenter, texts []string) {
	res, err := topic.NewModeler(s.cfg.Analysis, s.logger).Fit(seg.Documents(texts))
	if err != nil {
		s.stageFailed("topics", err)
		return
	}

	for _, row := range res.Rows() {
		s.logger.Info("topic", "label", row.Label, "share", row.Share, "terms", row.Terms)
	}

	if err := storage.WriteCSV(s.run.TopicAnalysisPath(), topicHeader, res.Records()); err != nil {
		s.stageFailed("topics", err)
	} else {
		s.logger.Info("topic analysis saved", "path", s.run.TopicAnalysisPath())
	}
	if err := r.TopicDistribution(s.run.VisualizationPath(topicDistributionFile), res); err != nil {
		s.stageFailed("topic_chart", err)
	}
	if err := r.TopicHTML(s.run.VisualizationPath(topicHTMLFile), res); err != nil {
		s.stageFailed("topic_html", err)
	}
}

// sentiment scores the comments, writes the JSON report, prints it and
// renders the sentiment charts. seg may be nil, the report then has no key
// terms and the sentiment word clouds are skipped.
func (s *session) sentiment(r *visualize.Renderer, seg *analysis.Segmenter, comments []types.Comment, out io.Writer) []types.Record {
	model, err := sentiment.DefaultModel()
	if err != nil {
		s.stageFailed("sentiment", err)
		return nil
	}
	batch, err := sentiment.NewScorer(model, s.logger).Score(comments)
	if err != nil {
		s.stageFailed("sentiment", err)
		return nil
	}

	rep, err := report.NewAssembler(seg, s.logger).Assemble(batch)
	if err != nil {
		s.stageFailed("report", err)
		return batch.Records
	}
	if err := storage.WriteJSON(s.run.SentimentReportPath(), rep); err != nil {
		s.stageFailed("report", err)
	} else {
		s.logger.Info("sentiment report saved", "path", s.run.SentimentReportPath())
	}
	report.Print(out, rep)

	if err := r.SentimentDonut(s.run.VisualizationPath(sentimentDonutFile), batch.Records); err != nil {
		s.stageFailed("sentiment_donut", err)
	}
	if err := r.SentimentHistogram(s.run.VisualizationPath(sentimentHistogramFile), batch.Records); err != nil {
		s.stageFailed("sentiment_histogram", err)
	}
	if seg != nil {
		pos, neg := s.run.VisualizationPath(positiveCloudFile), s.run.VisualizationPath(negativeCloudFile)
		if err := r.SentimentClouds(pos, neg, seg, batch.Records); err != nil {
			s.stageFailed("sentiment_clouds", err)
		}
	}
	return batch.Records
}

func (s *session) stageFailed(stage string, err error) {
	var se *types.StageError
	if !errors.As(err, &se) {
		err = &types.StageError{Stage: stage, Err: err}
	}
	s.logger.Error("stage failed, skipping its artifacts", "stage", stage, "error", err)
}
