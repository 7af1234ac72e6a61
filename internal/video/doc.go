// Package video turns a prompts document, a directory of scene images, and
// an audio track into an H.264 slideshow video.
//
// Scenes are laid out with an ffmpeg concat demuxer script so each image is
// shown for exactly its lyric duration. ffmpeg and ffprobe are executed
// through an injectable command runner so tests never need the real tools.
package video
