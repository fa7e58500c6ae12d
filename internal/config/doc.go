// Package config loads the editor configuration.
//
// Configuration comes from three places, later ones overriding earlier:
//
//	┌─────────────────────────────┐
//	│  3. Environment Variables   │  ← DOCEDIT_PLATFORM, DOCEDIT_LOG_LEVEL
//	├─────────────────────────────┤
//	│  2. Config File             │  ← docedit.toml or docedit.yaml
//	├─────────────────────────────┤
//	│  1. Built-in Defaults       │
//	└─────────────────────────────┘
//
// The file format follows the extension: ".toml" files are read with
// go-toml, ".yaml" and ".yml" files with yaml.v3. Unknown keys are
// rejected in both formats.
//
// # Basic Usage
//
//	cfg, err := config.Load("docedit.toml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Editor.Platform)
//
// # Live Reload
//
// A Watcher reloads the file when it changes and passes the new
// configuration to its listeners:
//
//	w, err := config.NewWatcher("docedit.toml")
//	if err != nil {
//	    return err
//	}
//	w.OnChange(func(cfg *config.Config) {
//	    ctrl.ApplyBindings(cfg.Keymap.KeymapBindings())
//	})
//	w.Start()
//	defer w.Close()
//
// A file that fails to load is reported through OnError and the previous
// configuration stays in effect.
package config
