// Package story loads the generated story document that names the video.
//
// The document is the JSON written by the text-generation step:
// {"title": "...", "content": "...", "tags": ["..."]}. The title drives
// caption alignment and footage selection; tags and title together form the
// text posted alongside the finished video.
package story
