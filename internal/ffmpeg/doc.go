// Package ffmpeg resolves ffmpeg arguments for progressive (single file,
// byte-range seekable) transcodes.
//
// A Resolver turns a state.StreamState into three strings:
//
//	r := ffmpeg.NewResolver(ffmpeg.NewDefaultPolicy(ffmpeg.Profile{Quality: ffmpeg.QualityHighQuality, CPUCount: 4}))
//	cmd := r.Command("/tmp/out.mp4", st, false)   // full invocation, without the binary
//	video := r.VideoArgs(st, ffmpeg.SelectVideoCodec(st.VideoRequest), false)
//	audio := r.AudioArgs(st)
//
// # Decisions
//
// Video takes one of three branches (see VideoMode):
//
//	copy            -vcodec copy, plus -bsf h264_mp4toannexb for H.264 sources
//	encode          forced keyframes, optional -vf scale, quality flags
//	encode_burn_in  forced keyframes, quality flags, -filter_complex overlay
//	                of the embedded PGS/DVD subtitle with scaling inside
//
// Audio is none (no source audio), copy, or encode with channel, bitrate and
// filter flags.
//
// # Policies
//
// Sizing, quality, channel/bitrate negotiation, threads, input flags and
// stream mapping are delegated to a Policy. DefaultPolicy implements them
// from a Profile; tests and callers may supply their own.
//
// Nothing in this package performs I/O or keeps state between calls.
package ffmpeg
