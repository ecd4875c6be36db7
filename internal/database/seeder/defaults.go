package seeder

func Defaults(startingHours int) []Seeder {
	return []Seeder{
		DemoProfilesSeeder{StartingHours: startingHours},
	}
}
