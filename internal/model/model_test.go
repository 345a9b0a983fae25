package model

import (
	"testing"
	"time"
)

func TestStateOf(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name    string
		attempt *Attempt
		want    AttemptState
	}{
		{name: "no attempt", attempt: nil, want: StateNotStarted},
		{name: "in progress", attempt: &Attempt{}, want: StateInProgress},
		{name: "completed", attempt: &Attempt{IsCompleted: true, CompletedAt: &now}, want: StateCompleted},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := StateOf(tc.attempt); got != tc.want {
				t.Fatalf("StateOf = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestTutorialVideoVariants(t *testing.T) {
	var tut Tutorial

	tut.SetVideo(YouTubeVideo{URL: "https://youtu.be/abc"})
	if v, ok := tut.Video().(YouTubeVideo); !ok || v.URL != "https://youtu.be/abc" {
		t.Fatalf("youtube variant = %#v", tut.Video())
	}

	tut.SetVideo(LocalVideo{ObjectKey: "tutorials/intro.mp4"})
	if tut.VideoURL != "" {
		t.Fatalf("switching variant left VideoURL = %q", tut.VideoURL)
	}
	if v, ok := tut.Video().(LocalVideo); !ok || v.ObjectKey != "tutorials/intro.mp4" {
		t.Fatalf("local variant = %#v", tut.Video())
	}

	broken := Tutorial{VideoKind: VideoLocal}
	if broken.Video() != nil {
		t.Fatalf("local tutorial without object key should have no video")
	}
}
