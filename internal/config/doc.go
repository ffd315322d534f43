// Package config provides nwin's configuration.
//
// Configuration is organized in layers with higher layers overriding lower:
//
//	┌─────────────────────────────┐
//	│  4. Command Line Flags      │  ← Highest priority
//	├─────────────────────────────┤
//	│  3. NWIN_* Environment      │
//	├─────────────────────────────┤
//	│  2. Config File             │  ← $XDG_CONFIG_HOME/nwin/config.toml
//	├─────────────────────────────┤     (or config.yaml)
//	│  1. Built-in Defaults       │  ← Lowest priority
//	└─────────────────────────────┘
//
// # Sections
//
//	[ui]      backend, frame_rate, message_timeout, font_path, font_size,
//	          foreground, background, snapshot_dir
//	[editor]  command, args, multigrid
//	[wm]      enabled, socket_path
//	[log]     level, file
//
// Typed snapshots are returned by UI, Editor, WM and Log. Values of the
// wrong type fall back to the default and are recorded; ConfigErrors
// returns them.
//
// # Live Reload
//
// Reload re-reads the config file layer. The watcher subpackage reports
// changes to the file; the caller decides when to reload so that all
// configuration changes are applied from one goroutine.
package config
