package monitor

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/kyzerkul/youtube-monitor/feeds"
	"github.com/kyzerkul/youtube-monitor/internal/platform"
	"github.com/kyzerkul/youtube-monitor/models"
	"github.com/kyzerkul/youtube-monitor/processing"
	"github.com/kyzerkul/youtube-monitor/transcript"
	"github.com/kyzerkul/youtube-monitor/wordpress"
)

// Pipeline runs the monitoring flow: RSS fetch, ingest, transcript, article
// generation and best-effort WordPress publishing.
type Pipeline struct {
	DB          *gorm.DB
	Fetcher     *feeds.Fetcher
	Ingestor    *feeds.Ingestor
	Transcripts *transcript.Fetcher
	Publisher   *wordpress.Publisher
}

// NewPipeline wires a pipeline with production components.
func NewPipeline(db *gorm.DB) *Pipeline {
	return &Pipeline{
		DB:          db,
		Fetcher:     feeds.NewFetcher(),
		Ingestor:    feeds.NewIngestor(db),
		Transcripts: transcript.NewFetcher(),
		Publisher:   wordpress.NewPublisher(db),
	}
}

// IngestChannel fetches a channel's feed and ingests new videos. Returns the
// internal IDs of newly created video rows.
func (pl *Pipeline) IngestChannel(ctx context.Context, channel models.Channel) ([]uint, error) {
	entries, err := pl.Fetcher.FetchChannelFeed(ctx, channel.ChannelID)
	if err != nil {
		return nil, err
	}
	return pl.Ingestor.IngestEntries(channel, entries)
}

// CheckAllChannels ingests every tracked channel and processes each newly
// found video serially. A channel failure aborts the run and surfaces to the
// caller. Returns the IDs of videos ingested during this run.
func (pl *Pipeline) CheckAllChannels(ctx context.Context) ([]uint, error) {
	var channels []models.Channel
	if err := pl.DB.Find(&channels).Error; err != nil {
		return nil, fmt.Errorf("load channels: %w", err)
	}

	platform.Logger().WithField("channels", len(channels)).Info("Checking channels for new videos")

	var newIDs []uint
	for _, channel := range channels {
		ids, err := pl.IngestChannel(ctx, channel)
		if err != nil {
			return newIDs, err
		}
		newIDs = append(newIDs, ids...)
	}

	for _, id := range newIDs {
		if _, err := pl.ProcessVideo(ctx, id); err != nil {
			platform.Logger().WithError(err).WithField("video_id", id).Error("Error processing video")
		}
	}

	return newIDs, nil
}

// RunMonitoring executes a full monitoring pass and records it as a
// MonitoringRun row. After ingestion it sweeps all videos still unprocessed,
// so a video whose earlier processing failed is retried on the next run.
func (pl *Pipeline) RunMonitoring(ctx context.Context, trigger string) (*models.MonitoringRun, error) {
	run := models.MonitoringRun{
		StartedAt: time.Now(),
		Trigger:   trigger,
	}

	var channels []models.Channel
	if err := pl.DB.Find(&channels).Error; err != nil {
		return nil, fmt.Errorf("load channels: %w", err)
	}
	run.ChannelCount = len(channels)

	var runErr error
	for _, channel := range channels {
		ids, err := pl.IngestChannel(ctx, channel)
		run.NewVideoCount += len(ids)
		if err != nil {
			runErr = err
			break
		}
	}

	if runErr == nil {
		// Sweep everything unprocessed, including videos stuck from
		// previous failed runs.
		var pending []models.Video
		if err := pl.DB.Where("processed = ?", false).Order("published_at").Find(&pending).Error; err != nil {
			runErr = err
		} else {
			for _, video := range pending {
				if _, err := pl.ProcessVideo(ctx, video.ID); err != nil {
					platform.Logger().WithError(err).WithField("video_id", video.ID).Error("Error processing video")
				}
			}
		}
	}

	run.FinishedAt = time.Now()
	if runErr != nil {
		run.Error = runErr.Error()
	}
	if err := pl.DB.Create(&run).Error; err != nil {
		platform.Logger().WithError(err).Error("Error recording monitoring run")
	}

	return &run, runErr
}

// ProcessVideo fetches the transcript, generates an article and marks the
// video processed. When the owning project has a WordPress site the article
// is auto-published as a draft; publish failures are logged, not fatal.
func (pl *Pipeline) ProcessVideo(ctx context.Context, videoID uint) (*models.Article, error) {
	var video models.Video
	err := pl.DB.Preload("Channel").Preload("Channel.Project").First(&video, videoID).Error
	if err != nil {
		return nil, fmt.Errorf("load video %d: %w", videoID, err)
	}

	language := video.Channel.Project.Language
	if language == "" {
		language = "en"
	}

	text := pl.Transcripts.Fetch(ctx, video.VideoID, language)
	if err := pl.DB.Model(&video).Update("transcript", text).Error; err != nil {
		return nil, fmt.Errorf("save transcript: %w", err)
	}

	article, err := pl.generateAndSave(ctx, video, text, language)
	if err != nil {
		return nil, err
	}

	if err := pl.DB.Model(&video).Update("processed", true).Error; err != nil {
		return nil, fmt.Errorf("mark video processed: %w", err)
	}

	var siteCount int64
	pl.DB.Model(&models.WordPressSite{}).Where("project_id = ?", video.Channel.ProjectID).Count(&siteCount)
	if siteCount > 0 {
		log := platform.Logger().WithField("video", video.Title)
		log.Info("Auto-publishing article to WordPress as draft")
		if result, err := pl.Publisher.PublishArticle(ctx, article.ID); err != nil {
			log.WithError(err).Error("Error publishing article to WordPress")
		} else {
			log.WithField("post_url", result.PostURL).Info("Article published as draft")
		}
	}

	return article, nil
}

// RegenerateArticle re-runs article generation for a video using its stored
// transcript, updating the existing (video, language) article when present.
func (pl *Pipeline) RegenerateArticle(ctx context.Context, videoID uint, language string) (*models.Article, error) {
	var video models.Video
	err := pl.DB.Preload("Channel").Preload("Channel.Project").First(&video, videoID).Error
	if err != nil {
		return nil, fmt.Errorf("load video %d: %w", videoID, err)
	}
	if video.Transcript == nil || *video.Transcript == "" {
		return nil, fmt.Errorf("video has no transcript")
	}
	if language == "" {
		language = "en"
	}

	return pl.generateAndSave(ctx, video, *video.Transcript, language)
}

// generateAndSave calls the configured provider and upserts the article for
// (video, language).
func (pl *Pipeline) generateAndSave(ctx context.Context, video models.Video, text, language string) (*models.Article, error) {
	var settings *models.LLMSettings
	var loaded models.LLMSettings
	if err := pl.DB.Where("project_id = ?", video.Channel.ProjectID).First(&loaded).Error; err == nil {
		settings = &loaded
	}

	generated, err := processing.GenerateArticle(ctx, processing.GenerateRequest{
		Video:      video,
		Transcript: text,
		Settings:   settings,
		Language:   language,
	})
	if err != nil {
		return nil, err
	}

	var article models.Article
	err = pl.DB.Where("video_id = ? AND language = ?", video.ID, language).First(&article).Error
	switch err {
	case nil:
		article.Title = generated.Title
		article.Content = generated.Content
		if err := pl.DB.Save(&article).Error; err != nil {
			return nil, fmt.Errorf("update article: %w", err)
		}
	case gorm.ErrRecordNotFound:
		article = models.Article{
			VideoID:   video.ID,
			Title:     generated.Title,
			Content:   generated.Content,
			Language:  language,
			Published: false,
		}
		if err := pl.DB.Create(&article).Error; err != nil {
			return nil, fmt.Errorf("save article: %w", err)
		}
	default:
		return nil, err
	}

	return &article, nil
}
