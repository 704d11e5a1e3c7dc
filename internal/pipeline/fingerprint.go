package pipeline

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"os"
)

// videoKey derives the stage-cache key for an input video reference.
func videoKey(input string) string {
	sum := sha256.Sum256([]byte(input))
	return hex.EncodeToString(sum[:8])
}

// fingerprint hashes a stage's identity: its name, the content of its input
// artifacts, and the stage-relevant configuration. Inputs that do not exist
// contribute an absence marker so a stage re-runs once they appear.
func fingerprint(stage string, inputs []string, cfgPart any) (string, error) {
	h := sha256.New()
	io.WriteString(h, stage)

	for _, in := range inputs {
		sum, err := fileSHA256(in)
		if err != nil {
			io.WriteString(h, "absent")
			continue
		}
		io.WriteString(h, sum)
	}

	if cfgPart != nil {
		data, err := json.Marshal(cfgPart)
		if err != nil {
			return "", err
		}
		h.Write(data)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// fileSHA256 returns the hex sha256 of a file's content.
func fileSHA256(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
