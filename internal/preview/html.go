package preview

import (
	"bytes"
	"embed"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"html/template"
	"io"

	"golang.org/x/crypto/blake2b"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplate = template.Must(template.New("preview.html").Funcs(template.FuncMap{
	"px": func(n int) string { return fmt.Sprintf("%dpx", n) },
	"shadow": func(elevation int) template.CSS {
		if elevation <= 0 {
			return "none"
		}
		return template.CSS(fmt.Sprintf("0 %dpx %dpx rgba(0,0,0,0.15)", elevation, elevation*2))
	},
}).ParseFS(templateFS, "templates/preview.html"))

// WriteHTML renders tree as a standalone HTML page.
func WriteHTML(w io.Writer, tree Tree) error {
	if err := pageTemplate.Execute(w, tree); err != nil {
		return fmt.Errorf("render preview html: %w", err)
	}
	return nil
}

// HTML is WriteHTML into a string.
func HTML(tree Tree) (string, error) {
	var buf bytes.Buffer
	if err := WriteHTML(&buf, tree); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Fingerprint is a stable hash of tree, used as the preview ETag. Render is
// deterministic, so equal inputs always give equal fingerprints.
func Fingerprint(tree Tree) (string, error) {
	data, err := json.Marshal(tree)
	if err != nil {
		return "", fmt.Errorf("marshal tree: %w", err)
	}
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:16]), nil
}
