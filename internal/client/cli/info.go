package cli

import (
	"context"
	"fmt"
)

const (
	activityDisplayLimit    = 20
	leaderboardDisplayLimit = 10
)

// Activities prints the most recent activity log entries.
func (a *App) Activities(ctx context.Context) error {
	activities, err := a.session.RecentActivities(ctx, activityDisplayLimit)
	if err != nil {
		fmt.Println(err.Error())
		return err
	}

	if len(activities) == 0 {
		fmt.Println("No activity recorded yet.")
		return nil
	}
	for _, act := range activities {
		line := fmt.Sprintf("%s  %-10s", act.Timestamp.Format("2006-01-02 15:04:05"), act.Type)
		if act.Details != "" {
			line += "  " + act.Details
		}
		fmt.Println(line)
	}
	return nil
}

// Leaderboard prints the reputation ranking of known identities, merging
// local records with the on-chain registry when one is configured.
func (a *App) Leaderboard(ctx context.Context) error {
	entries, err := a.leaderboard.Top(ctx, leaderboardDisplayLimit)
	if err != nil {
		fmt.Println(err.Error())
		return err
	}

	if len(entries) == 0 {
		fmt.Println("No identities known yet.")
		return nil
	}
	for i, e := range entries {
		source := "local"
		if e.OnChain {
			source = "chain"
		}
		fmt.Printf("%2d. %-20s %6d  %s  %s\n", i+1, e.Username, e.ReputationScore, source, e.WalletAddress)
	}
	return nil
}
