package main

import (
	"flag"
	"log"
	"os"

	"github.com/stuarthighley/sectorfx"
	"github.com/stuarthighley/sectorfx/acs"
)

func main() {
	wadFile := flag.String("wad", "", "WAD file to load")
	mapName := flag.String("map", "", "map lump to run (default: first map in the WAD)")
	configFile := flag.String("config", "", "YAML config file")
	scriptDir := flag.String("scripts", "", "directory of .tengo scripts (overrides config)")
	tics := flag.Int("tics", 35, "number of tics to run")
	save := flag.String("save", "", "write the thinkers to this file after the run")
	flag.Parse()

	logger := log.New(os.Stdout, "", log.LstdFlags)
	sectorfx.SetLogger(logger)
	acs.SetLogger(logger)

	if *wadFile == "" {
		log.Fatalln("-wad is required")
	}

	cfg := sectorfx.DefaultConfig()
	if *configFile != "" {
		var err error
		if cfg, err = sectorfx.LoadConfig(*configFile); err != nil {
			log.Fatalln(err)
		}
	}
	if *scriptDir != "" {
		cfg.Scripts.Dir = *scriptDir
	}

	w, err := sectorfx.NewWAD(*wadFile)
	if err != nil {
		log.Fatalln(err)
	}
	defer w.Close()

	name := *mapName
	if name == "" {
		names := w.LevelNames()
		if len(names) == 0 {
			log.Fatalln("no maps in", *wadFile)
		}
		name = names[0]
	}

	l, err := w.ReadLevel(name, cfg, sectorfx.NopHost{})
	if err != nil {
		log.Fatalln(err)
	}

	env := acs.New(l, cfg.Scripts)
	if cfg.Scripts.Dir != "" {
		if err := env.LoadDir(cfg.Scripts.Dir); err != nil {
			log.Fatalln(err)
		}
		if cfg.Scripts.Watch {
			if err := env.Watch(); err != nil {
				log.Fatalln(err)
			}
			defer env.Close()
		}
	}

	log.Printf("%s: %d sectors, %d lines, %d FOFs, %d thinkers, scripts %v",
		name, len(l.Sectors), len(l.Lines), len(l.FOFs), l.Thinkers.Len(), env.Scripts())

	for i := 0; i < *tics; i++ {
		l.Tick()
		if l.Exited || l.Failed {
			break
		}
	}
	log.Printf("%s: stopped at tic %d with %d thinkers", name, l.Tic, l.Thinkers.Len())

	if *save != "" {
		data, err := l.SaveThinkers()
		if err != nil {
			log.Fatalln(err)
		}
		if err := os.WriteFile(*save, data, 0o644); err != nil {
			log.Fatalln(err)
		}
	}
}
