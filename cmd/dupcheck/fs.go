package main

import "github.com/davetashner/dupcheck/internal/testable"

// cmdFS is the file system implementation used by CLI commands.
// Override in tests with a testable.MockFileSystem.
var cmdFS testable.FileSystem = testable.DefaultFS

// cmdGitOpener is the git-repository opener used to resolve the local
// origin remote when --pr omits owner/repo. Override in tests.
var cmdGitOpener testable.GitOpener = testable.DefaultGitOpener
