// Package templ defines the template engine contract used by the web host
// together with the engine-independent pieces every adapter shares: path
// resolution, trailing end-of-line trimming, the runtime mode switch and the
// error kinds surfaced through failed renders.
package templ
