package tfcs

import "log/slog"

// Option configures a Patcher.
type Option func(*Patcher)

// WithLogger sets the logger for warnings about dropped lines, fallbacks and
// codec failures. By default output is discarded.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Patcher) {
		p.logger = logger
	}
}

// WithCodec replaces the zlib codec.
func WithCodec(c Codec) Option {
	return func(p *Patcher) {
		p.codec = c
	}
}

// WithPlainPatcher replaces the patcher used for buffers without a TFCS
// header. Passing nil makes such buffers pass through untouched.
func WithPlainPatcher(pp PlainPatcher) Option {
	return func(p *Patcher) {
		p.plain = pp
		p.plainSet = true
	}
}

// WithExpander replaces the lines bundle expander (default:
// BalloonExpander with three lines per balloon).
func WithExpander(e Expander) Option {
	return func(p *Patcher) {
		p.expander = e
	}
}

// WithSubtitlesResolver sets where PatchSubtitles finds its documents.
// By default a patch stack over Config.Subtitles.Layers is used when the
// configuration names any.
func WithSubtitlesResolver(r Resolver) Option {
	return func(p *Patcher) {
		p.subtitles = r
	}
}

// WithStrictCompression controls what happens when the patched payload does
// not compress into the buffer.
//
// By default the truncated stream is written anyway and the call succeeds
// with Result.Truncated set, so the loader still gets a file. When enabled,
// the buffer is left untouched and an error wrapping ErrCompression is
// returned.
func WithStrictCompression(enabled bool) Option {
	return func(p *Patcher) {
		p.strictCompression = enabled
	}
}
