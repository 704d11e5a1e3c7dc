package video

import "testing"

func TestIsRemote(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"https://youtube.com/watch?v=abc", true},
		{"http://example.com/drive.mp4", true},
		{"input/video.mp4", false},
		{"/abs/path/video.mp4", false},
		{"file.mp4", false},
	}

	for _, c := range cases {
		if got := IsRemote(c.input); got != c.want {
			t.Errorf("IsRemote(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}

func TestNewDownloader_DefaultTimeout(t *testing.T) {
	d := NewDownloader(0)
	if d.timeout != DefaultDownloadTimeout {
		t.Errorf("timeout = %v, want default %v", d.timeout, DefaultDownloadTimeout)
	}
}
