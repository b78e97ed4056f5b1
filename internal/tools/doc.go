// Package tools locates and installs the external binaries the downloader
// shells out to: yt-dlp itself, the ffmpeg bundle used for merging and
// audio extraction, and the deno runtime yt-dlp uses for JS challenges.
// Binaries placed in the application tools directory take precedence over
// whatever is on PATH.
package tools
