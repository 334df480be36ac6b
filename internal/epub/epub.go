// Package epub extracts the text of EPUB archives as Markdown.
//
// The reader follows the OCF container to the OPF package, walks the spine
// in reading order, and converts each XHTML content document to Markdown
// text. It is deliberately lenient: entries it cannot resolve are skipped,
// and an archive only fails extraction when no content survives at all.
package epub

import (
	"archive/zip"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"
	"path/filepath"
	"strings"
)

// Sentinel errors for EPUB extraction failures.
var (
	ErrInvalidEPUB = errors.New("not a valid EPUB archive")
	ErrNoContent   = errors.New("no readable content in EPUB")
)

const (
	// containerPath is the fixed location of the OCF container document.
	containerPath = "META-INF/container.xml"

	// packageMediaType marks the container rootfile that carries the OPF package.
	packageMediaType = "application/oebps-package+xml"

	// maxEntrySize bounds the decompressed size of a single archive entry,
	// so a forged entry cannot exhaust memory.
	maxEntrySize int64 = 64 << 20
)

// Document is the content extracted from an EPUB archive. Title and Author
// come from the package metadata and may be empty.
type Document struct {
	Title    string
	Author   string
	Markdown string
}

// IsEPUB reports whether the path names an EPUB file, by extension.
func IsEPUB(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".epub")
}

// Extract opens the EPUB at path and returns its spine content as Markdown,
// together with the title and author declared in the package metadata.
func Extract(name string) (Document, error) {
	zrc, err := zip.OpenReader(name)
	if err != nil {
		if errors.Is(err, zip.ErrFormat) {
			return Document{}, fmt.Errorf("%s: %w", name, ErrInvalidEPUB)
		}
		return Document{}, fmt.Errorf("opening %s: %w", name, err)
	}
	defer zrc.Close()

	doc, err := extract(&zrc.Reader)
	if err != nil {
		return Document{}, fmt.Errorf("%s: %w", name, err)
	}
	return doc, nil
}

// containerXML mirrors META-INF/container.xml, which points at the OPF
// package document.
type containerXML struct {
	XMLName   xml.Name   `xml:"container"`
	RootFiles []rootFile `xml:"rootfiles>rootfile"`
}

type rootFile struct {
	FullPath  string `xml:"full-path,attr"`
	MediaType string `xml:"media-type,attr"`
}

// opfPackage is the subset of the OPF package document the extractor needs:
// Dublin Core title and creator, the manifest, and the spine order.
type opfPackage struct {
	XMLName  xml.Name    `xml:"package"`
	Metadata opfMetadata `xml:"metadata"`
	Manifest opfManifest `xml:"manifest"`
	Spine    opfSpine    `xml:"spine"`
}

type opfMetadata struct {
	Titles   []string `xml:"http://purl.org/dc/elements/1.1/ title"`
	Creators []string `xml:"http://purl.org/dc/elements/1.1/ creator"`
}

type opfManifest struct {
	Items []opfItem `xml:"item"`
}

type opfItem struct {
	ID         string `xml:"id,attr"`
	Href       string `xml:"href,attr"`
	MediaType  string `xml:"media-type,attr"`
	Properties string `xml:"properties,attr"`
}

type opfSpine struct {
	ItemRefs []opfItemRef `xml:"itemref"`
}

type opfItemRef struct {
	IDRef string `xml:"idref,attr"`
}

// extract walks an open archive: locate the OPF, parse it, then convert the
// spine's content documents in order.
func extract(zr *zip.Reader) (Document, error) {
	opfPath, err := locateOPF(zr)
	if err != nil {
		return Document{}, err
	}

	opfFile := findEntry(zr, opfPath)
	if opfFile == nil {
		return Document{}, fmt.Errorf("missing OPF %s: %w", opfPath, ErrInvalidEPUB)
	}
	opfData, err := readEntry(opfFile)
	if err != nil {
		return Document{}, fmt.Errorf("reading OPF: %w", err)
	}
	pkg, err := parseOPF(opfData)
	if err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrInvalidEPUB, err)
	}

	doc := Document{
		Title:  firstNonEmpty(pkg.Metadata.Titles),
		Author: firstNonEmpty(pkg.Metadata.Creators),
	}

	byID := make(map[string]opfItem, len(pkg.Manifest.Items))
	for _, item := range pkg.Manifest.Items {
		byID[item.ID] = item
	}

	opfDir := path.Dir(opfPath)
	var parts []string
	for _, ref := range pkg.Spine.ItemRefs {
		item, ok := byID[ref.IDRef]
		if !ok || !isContentDocument(item.MediaType) {
			continue
		}
		// EPUB 3 navigation documents list the TOC; that is not book text.
		if hasProperty(item.Properties, "nav") {
			continue
		}
		name := resolvePath(opfDir, item.Href)
		if name == "" {
			continue
		}
		entry := findEntry(zr, name)
		if entry == nil {
			continue
		}
		data, err := readEntry(entry)
		if err != nil {
			continue
		}
		if md := markdownFromXHTML(data); md != "" {
			parts = append(parts, md)
		}
	}

	if len(parts) == 0 {
		return Document{}, ErrNoContent
	}
	doc.Markdown = strings.Join(parts, "\n\n") + "\n"
	return doc, nil
}

// locateOPF finds the OPF package path, preferring the container.xml
// declaration and falling back to a scan for any .opf entry.
func locateOPF(zr *zip.Reader) (string, error) {
	if f := findEntry(zr, containerPath); f != nil {
		if data, err := readEntry(f); err == nil {
			if p := opfPathFromContainer(data); p != "" {
				return p, nil
			}
		}
	}
	for _, f := range zr.File {
		if strings.EqualFold(path.Ext(f.Name), ".opf") && safePath(f.Name) {
			return f.Name, nil
		}
	}
	return "", fmt.Errorf("no OPF package document: %w", ErrInvalidEPUB)
}

// opfPathFromContainer returns the declared package path, preferring the
// rootfile with the OPF media type over whichever is listed first.
func opfPathFromContainer(data []byte) string {
	var c containerXML
	if err := xml.Unmarshal(stripBOM(data), &c); err != nil {
		return ""
	}
	var first string
	for _, rf := range c.RootFiles {
		if rf.FullPath == "" {
			continue
		}
		if rf.MediaType == packageMediaType {
			return rf.FullPath
		}
		if first == "" {
			first = rf.FullPath
		}
	}
	return first
}

// opfEntities rewrites HTML named entities seen in the wild in OPF metadata
// into numeric references that encoding/xml accepts.
var opfEntities = strings.NewReplacer(
	"&nbsp;", "&#160;",
	"&mdash;", "&#8212;",
	"&ndash;", "&#8211;",
	"&hellip;", "&#8230;",
	"&lsquo;", "&#8216;",
	"&rsquo;", "&#8217;",
	"&ldquo;", "&#8220;",
	"&rdquo;", "&#8221;",
	"&copy;", "&#169;",
)

func parseOPF(data []byte) (*opfPackage, error) {
	src := opfEntities.Replace(string(stripBOM(data)))

	var pkg opfPackage
	if err := xml.Unmarshal([]byte(src), &pkg); err != nil {
		return nil, fmt.Errorf("parsing OPF package: %w", err)
	}
	return &pkg, nil
}

// findEntry looks up an archive entry by path, exact match first, then
// case-insensitive. EPUBs produced on case-insensitive filesystems routinely
// disagree with their own manifests about case.
func findEntry(zr *zip.Reader, name string) *zip.File {
	for _, f := range zr.File {
		if f.Name == name {
			return f
		}
	}
	lower := strings.ToLower(name)
	for _, f := range zr.File {
		if strings.ToLower(f.Name) == lower {
			return f
		}
	}
	return nil
}

// readEntry decompresses a single archive entry, enforcing maxEntrySize even
// when the declared size lies.
func readEntry(f *zip.File) ([]byte, error) {
	if !safePath(f.Name) {
		return nil, fmt.Errorf("unsafe entry path %s", f.Name)
	}
	if f.UncompressedSize64 > uint64(maxEntrySize) {
		return nil, fmt.Errorf("entry %s exceeds %d bytes", f.Name, maxEntrySize)
	}

	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("opening entry %s: %w", f.Name, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, maxEntrySize+1))
	if err != nil {
		return nil, fmt.Errorf("reading entry %s: %w", f.Name, err)
	}
	if int64(len(data)) > maxEntrySize {
		return nil, fmt.Errorf("entry %s exceeds %d bytes", f.Name, maxEntrySize)
	}
	return data, nil
}

// resolvePath joins an OPF-relative href onto the package directory,
// rejecting absolute paths and traversal outside the archive root.
func resolvePath(opfDir, href string) string {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "/") {
		return ""
	}
	if decoded, err := url.PathUnescape(href); err == nil {
		href = decoded
	}
	joined := path.Clean(path.Join(opfDir, href))
	if !safePath(joined) {
		return ""
	}
	return joined
}

// safePath reports whether p stays inside the archive root.
func safePath(p string) bool {
	cleaned := path.Clean(p)
	if strings.HasPrefix(cleaned, "/") {
		return false
	}
	return cleaned != ".." && !strings.HasPrefix(cleaned, "../")
}

// stripBOM drops a leading UTF-8 byte order mark.
func stripBOM(data []byte) []byte {
	if len(data) >= 3 && data[0] == 0xEF && data[1] == 0xBB && data[2] == 0xBF {
		return data[3:]
	}
	return data
}

func isContentDocument(mediaType string) bool {
	switch strings.ToLower(strings.TrimSpace(mediaType)) {
	case "application/xhtml+xml", "text/html":
		return true
	}
	return false
}

// hasProperty reports whether want appears in a space-separated OPF
// properties attribute.
func hasProperty(properties, want string) bool {
	for _, p := range strings.Fields(properties) {
		if p == want {
			return true
		}
	}
	return false
}

func firstNonEmpty(values []string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
