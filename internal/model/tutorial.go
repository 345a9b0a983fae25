package model

type VideoKind string

const (
	VideoYouTube VideoKind = "youtube"
	VideoLocal   VideoKind = "local"
)

// VideoSource is either a YouTubeVideo or a LocalVideo.
type VideoSource interface {
	Kind() VideoKind
}

type YouTubeVideo struct {
	URL string
}

func (YouTubeVideo) Kind() VideoKind { return VideoYouTube }

// LocalVideo points at an object stored through the configured storage provider.
type LocalVideo struct {
	ObjectKey string
}

func (LocalVideo) Kind() VideoKind { return VideoLocal }

// swagger:model Tutorial
type Tutorial struct {
	BaseModel
	Title           string    `gorm:"size:200;not null" json:"title"`
	Description     string    `gorm:"type:text" json:"description"`
	Category        string    `gorm:"size:100;not null" json:"category"`
	VideoKind       VideoKind `gorm:"size:10;not null" json:"videoKind"`
	VideoURL        string    `gorm:"size:500;index" json:"-"`
	ObjectKey       string    `gorm:"size:255;index" json:"-"`
	DurationSeconds float64   `json:"durationSeconds"`
	IsActive        bool      `gorm:"index" json:"isActive"`
}

func (Tutorial) TableName() string {
	return "tutorials"
}

// Video returns the variant stored in the row, or nil when the row is
// inconsistent with its kind.
func (t *Tutorial) Video() VideoSource {
	switch t.VideoKind {
	case VideoYouTube:
		if t.VideoURL != "" {
			return YouTubeVideo{URL: t.VideoURL}
		}
	case VideoLocal:
		if t.ObjectKey != "" {
			return LocalVideo{ObjectKey: t.ObjectKey}
		}
	}
	return nil
}

// SetVideo stores v and clears the columns of the other variant.
func (t *Tutorial) SetVideo(v VideoSource) {
	t.VideoURL, t.ObjectKey = "", ""
	switch src := v.(type) {
	case YouTubeVideo:
		t.VideoKind = VideoYouTube
		t.VideoURL = src.URL
	case LocalVideo:
		t.VideoKind = VideoLocal
		t.ObjectKey = src.ObjectKey
	}
}
