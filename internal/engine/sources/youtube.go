package sources

// YouTube implementation is split across files by responsibility:
//   youtube_videoid.go   video ID extraction from URL shapes
//   youtube_player.go    YouTube client, watch page fetch, embedded captions JSON types
//   youtube_tracks.go    caption track listing and selection
//   youtube_timedtext.go timedtext XML fetching and streaming parse
