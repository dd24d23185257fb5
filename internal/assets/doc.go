// Package assets serves the stylesheets and HTML templates doxs wraps
// rendered fragments with.
//
// Assets live under two directories, both in the binary and in an optional
// user directory set with --assets-dir:
//
//	styles/<name>.css
//	templates/<name>.html
//
// The "page" template is an html/template that turns a fragment into a
// standalone page. Any other template is a partial, reachable from documents
// through {% include "name" %}.
//
// AssetResolver looks in the user directory first and falls back to the
// embedded copy. Names are checked by ValidateAssetName, and
// FilesystemLoader refuses symlinks that lead outside its directory.
package assets
