// Package modules regenerates the modules section of the platform's
// deployment config (app/etc/config.php).
//
// Modules are discovered from their etc/module.xml declarations and ordered so
// that every module follows the modules listed in its <sequence>. The
// resulting enable flags keep modules that are explicitly disabled today
// disabled, enable everything else, then apply the requested overrides.
package modules
