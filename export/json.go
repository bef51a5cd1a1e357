// SPDX-License-Identifier: EPL-2.0

package export

import (
	"encoding/json"
	"fmt"
	"io"
)

// JSON writes v indented by two spaces, followed by a newline.
func JSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)

	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}

	return nil
}
