// Command vodfetch downloads archived broadcasts and uploads with yt-dlp
// according to a persisted preference document.
package main
