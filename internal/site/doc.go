// Package site writes a theme to disk: it copies the theme's asset tree into
// the destination and renders each manifest template against the render
// context.
//
// Output is written atomically (temp file and rename) so a preview server
// never serves a half-written page. Output paths are confined to the
// destination directory.
package site
