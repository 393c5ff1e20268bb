package krequestlog

import (
	"github.com/dunice-shabanov/passport-youtube/lib/kflags"
	"github.com/dunice-shabanov/passport-youtube/lib/logger"
)

// Format selects how completed requests are logged.
type Format string

const (
	// FormatText logs key=value pairs.
	FormatText Format = "text"
	// FormatApache logs lines similar to the apache combined log format.
	FormatApache Format = "apache"
)

type Flags struct {
	LogStart  bool
	LogEnd    bool
	LogFormat string
}

func DefaultFlags() *Flags {
	return &Flags{
		LogEnd:    true,
		LogFormat: string(FormatText),
	}
}

func (f *Flags) Register(set kflags.FlagSet, prefix string) *Flags {
	set.BoolVar(&f.LogStart, prefix+"log-start", f.LogStart, "Log a line when a request is received")
	set.BoolVar(&f.LogEnd, prefix+"log-end", f.LogEnd, "Log a line with status, size and duration when a request completes")
	set.StringVar(&f.LogFormat, prefix+"log-format", f.LogFormat, "Format of the request completion line, one of text or apache")
	return f
}

// Options configures the handler returned by NewHandler.
//
// Lines are sent to Printer. When no Printer is configured, they are logged
// at info level with Log.
type Options struct {
	Log      logger.Logger
	LogStart bool
	LogEnd   bool
	Format   Format
	Printer  func(format string, args ...interface{})
}

type Modifier func(*Options)

func WithLogger(log logger.Logger) Modifier {
	return func(o *Options) {
		o.Log = log
	}
}

func WithPrinter(printer func(format string, args ...interface{})) Modifier {
	return func(o *Options) {
		o.Printer = printer
	}
}

func WithFormat(format Format) Modifier {
	return func(o *Options) {
		o.Format = format
	}
}

func FromFlags(flags *Flags) Modifier {
	return func(o *Options) {
		o.LogStart = flags.LogStart
		o.LogEnd = flags.LogEnd
		o.Format = Format(flags.LogFormat)
	}
}

func NewOptions(mods ...Modifier) *Options {
	o := &Options{
		Log:    logger.Go,
		LogEnd: true,
		Format: FormatText,
	}
	for _, m := range mods {
		m(o)
	}

	if o.Log == nil {
		o.Log = logger.Nil
	}
	if o.Format != FormatText && o.Format != FormatApache {
		o.Log.Warnf("unknown request log format %q - using %s", o.Format, FormatText)
		o.Format = FormatText
	}
	if o.Printer == nil {
		o.Printer = o.Log.Infof
	}
	return o
}
