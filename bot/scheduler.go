package bot

import (
	"fmt"
	"log"
	"sync"
	"time"

	"level-helper/leveling"
	"level-helper/model"
	"level-helper/utils"
)

// SchedulerProvider defines the methods the scheduler needs from the Bot.
type SchedulerProvider interface {
	GetConfig() *model.Config
	GetSynchronizer() *leveling.Synchronizer
}

func (b *Bot) GetSynchronizer() *leveling.Synchronizer {
	return b.Synchronizer
}

// Scheduler runs the periodic role-reward sweep: a safety net that
// re-reconciles every configured guild so members who leveled up while
// a grant failed (or while the bot was down) still receive their
// roles.
type Scheduler struct {
	bot             SchedulerProvider
	done            chan struct{}
	wg              sync.WaitGroup
	reconcileTicker *time.Ticker
}

// NewScheduler creates a new scheduler.
func NewScheduler(bot SchedulerProvider) *Scheduler {
	return &Scheduler{
		bot:  bot,
		done: make(chan struct{}),
	}
}

// Start begins all scheduled tasks.
func (s *Scheduler) Start() {
	s.wg.Add(1)
	go s.startScheduledTasks()
}

// Stop terminates all scheduled tasks gracefully.
func (s *Scheduler) Stop() {
	log.Println("Stopping scheduler...")
	close(s.done)
	s.wg.Wait()
	log.Println("Scheduler stopped.")
}

func (s *Scheduler) startScheduledTasks() {
	defer s.wg.Done()
	s.reconcileTicker = time.NewTicker(6 * time.Hour)
	defer s.reconcileTicker.Stop()

	for {
		select {
		case <-s.reconcileTicker.C:
			log.Println("Running periodic role-reward reconcile...")
			s.reconcileAllGuilds()
		case <-s.done:
			return
		}
	}
}

func (s *Scheduler) reconcileAllGuilds() {
	cfg := s.bot.GetConfig()
	synchronizer := s.bot.GetSynchronizer()

	var wg sync.WaitGroup
	guard := make(chan struct{}, 2)

	for guildID, serverCfg := range cfg.ServerConfigs {
		if !serverCfg.Enable {
			continue
		}
		wg.Add(1)
		guard <- struct{}{}
		go func(guildID string) {
			defer func() {
				<-guard
				wg.Done()
			}()
			updated, failures, err := synchronizer.ReconcileLevel(guildID, 1)
			if err != nil {
				log.Printf("Periodic reconcile failed for guild %s: %v", guildID, err)
				return
			}
			for _, f := range failures {
				log.Printf("Periodic reconcile: %v", f)
			}
			if updated > 0 && cfg.LogWebhookURL != "" {
				utils.LogInfo(cfg.LogWebhookURL, "Leveling", "Reconcile",
					fmt.Sprintf("Granted missing level roles to %d members in guild %s", updated, guildID))
			}
		}(guildID)
	}
	wg.Wait()
}
