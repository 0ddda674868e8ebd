// Package scaffold generates the files a new dashboard project needs. It
// powers the "dashlaunch init" command, writing the project settings file
// and a dependency manifest from embedded templates and adding the
// environment directory to .gitignore.
package scaffold
