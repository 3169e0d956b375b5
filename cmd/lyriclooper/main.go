package main

import (
	"log"

	"fyne.io/fyne/v2/app"

	"github.com/blackcarburning/LyricLooper/internal/audio"
	"github.com/blackcarburning/LyricLooper/internal/core/model"
	"github.com/blackcarburning/LyricLooper/internal/core/scheduler"
	"github.com/blackcarburning/LyricLooper/internal/platform"
	"github.com/blackcarburning/LyricLooper/internal/storage"
	"github.com/blackcarburning/LyricLooper/internal/ui/player"
)

const appName = "LyricLooper"

func main() {
	guard, err := platform.AcquireSingleInstance(appName)
	if err != nil {
		log.Printf("single instance: %v", err)
		return
	}
	defer func() {
		_ = guard.Release()
	}()

	settings, text, err := storage.LoadSettings(appName)
	if err != nil {
		log.Printf("settings: %v", err)
	}

	fyneApp := app.NewWithID("com.blackcarburning.lyriclooper")

	metronome := audio.NewMetronome(settings.MetronomeVolume)
	defer metronome.Close()

	sched := scheduler.New()
	sched.SetClicker(metronome)
	defer sched.Close()

	window := player.New(fyneApp, sched, settings, text,
		func(applied model.Settings) {
			metronome.SetVolume(applied.MetronomeVolume)
		},
		func(saved model.Settings, savedText string) {
			if err := storage.SaveSettings(appName, saved, savedText); err != nil {
				log.Printf("save settings: %v", err)
			}
		})
	window.Show()

	fyneApp.Run()
}
