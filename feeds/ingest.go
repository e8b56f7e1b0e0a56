package feeds

import (
	"time"

	"gorm.io/gorm"

	"github.com/kyzerkul/youtube-monitor/internal/platform"
	"github.com/kyzerkul/youtube-monitor/models"
)

// RecencyWindow is how far back feed entries are ingested. Entries published
// earlier than this are ignored.
const RecencyWindow = 48 * time.Hour

// Ingestor persists new feed entries as video rows.
type Ingestor struct {
	DB *gorm.DB
	// Overridable in tests
	Now func() time.Time
}

func NewIngestor(db *gorm.DB) *Ingestor {
	return &Ingestor{DB: db, Now: time.Now}
}

// IngestEntries filters entries to the recency window, deduplicates against
// stored videos by external video ID and inserts the rest with processed=false.
// Returns the internal IDs of newly created videos. A failed insert skips the
// entry rather than aborting the loop; a re-run is idempotent per video ID.
func (ing *Ingestor) IngestEntries(channel models.Channel, entries []Entry) ([]uint, error) {
	log := platform.Logger().WithField("channel_id", channel.ChannelID)
	newIDs := make([]uint, 0, len(entries))

	for _, entry := range entries {
		if ing.Now().Sub(entry.Published) > RecencyWindow {
			continue
		}

		var existing models.Video
		err := ing.DB.Where("video_id = ?", entry.VideoID).First(&existing).Error
		if err == nil {
			log.WithField("video_id", entry.VideoID).Debug("Video already in database, skipping")
			continue
		}
		if err != gorm.ErrRecordNotFound {
			return newIDs, err
		}

		video := models.Video{
			ChannelID:   channel.ID,
			VideoID:     entry.VideoID,
			Title:       entry.Title,
			Description: entry.Description,
			PublishedAt: entry.Published,
			Processed:   false,
		}
		if err := ing.DB.Create(&video).Error; err != nil {
			// Unique index on video_id absorbs the ingest race with a
			// concurrent manual run.
			log.WithError(err).WithField("video_id", entry.VideoID).Error("Error inserting video")
			continue
		}

		log.WithFields(map[string]interface{}{
			"video_id": entry.VideoID,
			"title":    entry.Title,
		}).Info("Added new video to database")
		newIDs = append(newIDs, video.ID)
	}

	return newIDs, nil
}
