/*
Package resources resolves resources for an application.

Currently the only kind of resource are fonts. A font may be given as a
file path or as the name of a font installed on the system; the latter will
be searched for in the usual font directories of the platform.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package resources

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces to tracing key 'textraster.fonts'.
func tracer() tracing.Trace {
	return tracing.Select("textraster.fonts")
}
