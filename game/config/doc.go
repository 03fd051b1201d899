// Package config manages the difficulty table of the Number Guessing Game.
//
// The table is fixed at process start (Easy, Medium, Hard) and is not read
// from disk. The Manager resolves names case-insensitively, lists the table
// in display order, and reports the default difficulty new games start under.
//
// Usage:
//
//	manager := config.NewManager()
//
//	hard, err := manager.LoadDifficulty("hard")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	for _, info := range manager.ListDifficulties() {
//		fmt.Println(info.Name, info.Range, info.MaxTries)
//	}
package config
