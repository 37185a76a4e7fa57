// Package wpml reads area mission flight plans from the WPML dialect of
// KML and writes the converted waypoint mission documents back out.
//
// Parsing and serialization are prefix-based: source documents declare the
// KML 2.2 namespace as default and the WPML extension namespace under the
// wpml: prefix, and emitted documents declare the same two, so no generic
// namespace resolution is attempted.
package wpml

const (
	// NamespaceKML is the default namespace of mission documents.
	NamespaceKML = "http://www.opengis.net/kml/2.2"

	// NamespaceWPML is the DJI wayline extension namespace, bound to the
	// wpml: prefix in both parsed and emitted documents.
	NamespaceWPML = "http://www.dji.com/wpmz/1.0.6"
)
