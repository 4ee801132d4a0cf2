package palettes

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/dtnitsch/wiki-wordcloud/pkg/palette"
)

func PalettesAction(c *cli.Context) error {
	return Write(os.Stdout, c.String("format"))
}

// Write prints every palette in the requested format: "json", "yaml" or
// "text" (one palette per line).
func Write(w io.Writer, format string) error {
	all := palette.All()

	switch strings.ToLower(format) {
	case "", "text":
		for _, name := range palette.Names() {
			fmt.Fprintf(w, "%-10s %s\n", name, strings.Join(all[name], " "))
		}
		return nil
	case "json":
		data, err := json.MarshalIndent(all, "", "  ")
		if err != nil {
			return fmt.Errorf("error marshalling palettes: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(all); err != nil {
			return fmt.Errorf("error marshalling palettes: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q (want text, json or yaml)", format)
	}
}
