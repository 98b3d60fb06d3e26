package manifest

import (
	"encoding/xml"
	"os"
	"strings"

	"github.com/ajxudir/nupdate/pkg/errors"
	"github.com/ajxudir/nupdate/pkg/verbose"
	"github.com/ajxudir/nupdate/pkg/versioning"
)

// xmlNode is a generic XML element tree used to walk manifest documents
// without a fixed schema.
//
// Fields:
//   - XMLName: The element name
//   - Attrs: All attributes of the element
//   - Content: The character data directly inside the element
//   - Nodes: Child elements in document order
type xmlNode struct {
	XMLName xml.Name
	Attrs   []xml.Attr `xml:",any,attr"`
	Content string     `xml:",chardata"`
	Nodes   []xmlNode  `xml:",any"`
}

// Parse reads a manifest and returns its package references in document order.
//
// Parsing is lenient per entry: elements missing an Include attribute,
// missing a version, or carrying an unparsable version string are silently
// skipped. An unreadable or structurally malformed document is fatal.
//
// Parameters:
//   - path: The manifest file to parse
//
// Returns:
//   - []PackageReference: References in document order
//   - error: A *errors.ParseError when the file cannot be read or decoded;
//     returns nil on success
func Parse(path string) ([]PackageReference, error) {
	entries, err := readEntries(path, "PackageReference")
	if err != nil {
		return nil, err
	}
	return toReferences(path, entries), nil
}

// ParseCentral reads a shared version file and returns its version entries
// in document order.
//
// The same lenient per-entry rules as Parse apply, over <PackageVersion>
// elements instead of <PackageReference>.
//
// Parameters:
//   - path: The Directory.Packages.props file to parse
//
// Returns:
//   - []PackageReference: Version entries in document order
//   - error: A *errors.ParseError when the file cannot be read or decoded;
//     returns nil on success
func ParseCentral(path string) ([]PackageReference, error) {
	entries, err := readEntries(path, "PackageVersion")
	if err != nil {
		return nil, err
	}
	return toReferences(path, entries), nil
}

// toReferences applies the lenient skip rules to raw entries.
//
// Parameters:
//   - path: The source file, for logging only
//   - entries: Raw reference entries in document order
//
// Returns:
//   - []PackageReference: Entries with a valid id and parsable version
func toReferences(path string, entries []rawEntry) []PackageReference {
	refs := make([]PackageReference, 0, len(entries))
	for _, entry := range entries {
		if entry.id == "" {
			verbose.Debugf("Skipping entry without package id in %s", path)
			continue
		}
		if !entry.hasVersion {
			verbose.Debugf("Skipping %s: no version attribute in %s", entry.id, path)
			continue
		}
		version, ok := versioning.Parse(entry.rawVersion)
		if !ok {
			verbose.Debugf("Skipping %s: unparsable version %q in %s", entry.id, entry.rawVersion, path)
			continue
		}
		refs = append(refs, PackageReference{ID: entry.id, Version: version})
	}
	return refs
}

// readEntries unmarshals a document and collects its reference entries.
//
// Parameters:
//   - path: The file to read
//   - element: The reference element name to collect ("PackageReference" or "PackageVersion")
//
// Returns:
//   - []rawEntry: Raw entries in document order
//   - error: A *errors.ParseError when the file cannot be read or decoded
func readEntries(path, element string) ([]rawEntry, error) {
	root, err := readDocument(path)
	if err != nil {
		return nil, err
	}

	var entries []rawEntry
	walkNodes(root, func(node *xmlNode) {
		if node.XMLName.Local != element {
			return
		}
		entry := rawEntry{id: strings.TrimSpace(attrValue(node, "Include"))}
		if version, ok := versionOf(node); ok {
			entry.rawVersion = version
			entry.hasVersion = true
		}
		entries = append(entries, entry)
	})

	return entries, nil
}

// readDocument reads and unmarshals a manifest document.
//
// Parameters:
//   - path: The file to read
//
// Returns:
//   - *xmlNode: The document root
//   - error: A *errors.ParseError carrying the path and underlying cause
func readDocument(path string) (*xmlNode, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewParseError(path, err)
	}

	var root xmlNode
	if err := xml.Unmarshal(data, &root); err != nil {
		return nil, errors.NewParseError(path, err)
	}

	return &root, nil
}

// IDs returns the package id of every reference entry in document order,
// including entries that carry no version of their own. Centrally-managed
// manifests list their dependencies this way, with the versions pinned in
// the shared version file.
//
// Parameters:
//   - path: The manifest file to parse
//
// Returns:
//   - []string: Package ids in document order, entries without an id skipped
//   - error: A *errors.ParseError when the file cannot be read or decoded;
//     returns nil on success
func IDs(path string) ([]string, error) {
	entries, err := readEntries(path, "PackageReference")
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.id != "" {
			ids = append(ids, entry.id)
		}
	}
	return ids, nil
}

// Validate checks that a file exists and parses as a well-formed XML document.
//
// Parameters:
//   - path: The file to check
//
// Returns:
//   - error: A *errors.ParseError when the file is missing, unreadable, or
//     malformed; returns nil when the document is well formed
func Validate(path string) error {
	_, err := readDocument(path)
	return err
}

// versionOf extracts a reference entry's version, as an attribute or as a
// <Version> child element.
//
// Parameters:
//   - node: The reference element
//
// Returns:
//   - string: The version string, trimmed
//   - bool: true if an explicit version is present and non-empty
func versionOf(node *xmlNode) (string, bool) {
	if v := strings.TrimSpace(attrValue(node, "Version")); v != "" {
		return v, true
	}
	for i := range node.Nodes {
		child := &node.Nodes[i]
		if strings.EqualFold(child.XMLName.Local, "Version") {
			if v := strings.TrimSpace(child.Content); v != "" {
				return v, true
			}
		}
	}
	return "", false
}

// attrValue returns an attribute's value by case-insensitive name lookup.
//
// Parameters:
//   - node: The element to inspect
//   - name: The attribute name
//
// Returns:
//   - string: The attribute value, empty if absent
func attrValue(node *xmlNode, name string) string {
	for _, attr := range node.Attrs {
		if strings.EqualFold(attr.Name.Local, name) {
			return attr.Value
		}
	}
	return ""
}

// walkNodes visits every element of the tree in document order.
//
// Parameters:
//   - node: The root of the subtree to visit
//   - visit: Callback invoked for each element
func walkNodes(node *xmlNode, visit func(*xmlNode)) {
	visit(node)
	for i := range node.Nodes {
		walkNodes(&node.Nodes[i], visit)
	}
}
