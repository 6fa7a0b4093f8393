// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"net/url"
	"strings"

	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/pdiddy/nbexport/pkg/types"
)

const attachmentScheme = "attachment:"

// attachmentsKey carries a cell's attachments through the parse context.
var attachmentsKey = parser.NewContextKey()

// attachmentMimes lists image types, in preference order, that an
// attachment reference can resolve to.
var attachmentMimes = []string{"image/png", "image/jpeg", "image/gif", "image/webp", "image/svg+xml"}

// attachmentTransformer rewrites ![alt](attachment:name) image destinations
// to data URIs built from the cell's attachments. Unknown names are left as
// they are.
type attachmentTransformer struct{}

func (attachmentTransformer) Transform(doc *gmast.Document, _ text.Reader, pc parser.Context) {
	atts, _ := pc.Get(attachmentsKey).(map[string]types.MimeBundle)
	if len(atts) == 0 {
		return
	}
	_ = gmast.Walk(doc, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		img, ok := n.(*gmast.Image)
		if !entering || !ok {
			return gmast.WalkContinue, nil
		}
		if uri, ok := attachmentURI(atts, string(img.Destination)); ok {
			img.Destination = []byte(uri)
		}
		return gmast.WalkContinue, nil
	})
}

// attachmentURI resolves an "attachment:<name>" destination to a data URI.
func attachmentURI(atts map[string]types.MimeBundle, dest string) (string, bool) {
	name, found := strings.CutPrefix(dest, attachmentScheme)
	if !found {
		return "", false
	}
	bundle, ok := atts[name]
	if !ok {
		unescaped, err := url.PathUnescape(name)
		if err != nil {
			return "", false
		}
		if bundle, ok = atts[unescaped]; !ok {
			return "", false
		}
	}
	for _, mime := range attachmentMimes {
		if data, ok := bundle[mime]; ok {
			return "data:" + mime + ";base64," + strings.Join(strings.Fields(data.String()), ""), true
		}
	}
	return "", false
}
