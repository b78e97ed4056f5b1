// Package ytdlp wraps the yt-dlp command line interface. The client
// assembles argument lists from a preference document, pre-scans playlist
// candidates so the acquisition filter can reject items before any bytes
// move, and parses progress output into structured updates.
package ytdlp
