// Package doctor inspects a dashboard project without changing it. It
// reports, step by step, whether the launch sequence would succeed: host
// interpreter, virtual environment, runner, dependency manifest, entry file
// and project settings.
package doctor
