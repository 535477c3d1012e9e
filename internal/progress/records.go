package progress

import "sort"

type recordField struct {
	recordType RecordType
	unit       string
	value      func(p Performance) *float64
}

// order here is the emission order of ExtractRecords
var recordFields = []recordField{
	{RecordMaxWeight, "kg", func(p Performance) *float64 { return p.Weight }},
	{RecordMaxReps, "reps", func(p Performance) *float64 { return p.Reps }},
	{RecordMaxDuration, "min", func(p Performance) *float64 { return p.Duration }},
	{RecordMaxDistance, "km", func(p Performance) *float64 { return p.Distance }},
}

// ExtractRecords returns at most one record per measurement type for the
// given performances of one exercise. A record is emitted only when some
// performance has a value > 0 for that measurement; it points to the first
// performance reaching the maximum.
func ExtractRecords(name string, exerciseType ExerciseType, performances []Performance) []PersonalRecord {
	records := make([]PersonalRecord, 0, len(recordFields))
	for _, field := range recordFields {
		best := -1
		var bestValue float64
		for i, p := range performances {
			v := field.value(p)
			if v == nil || *v <= 0 {
				continue
			}
			if best < 0 || *v > bestValue {
				best, bestValue = i, *v
			}
		}
		if best < 0 {
			continue
		}
		records = append(records, PersonalRecord{
			ExerciseName: name,
			ExerciseType: exerciseType,
			RecordType:   field.recordType,
			RecordValue:  bestValue,
			RecordUnit:   field.unit,
			AchievedDate: performances[best].Date,
			WorkoutID:    performances[best].WorkoutID,
		})
	}
	return records
}

// sortRecordsByDateDesc orders records most recent first; ties keep their order.
func sortRecordsByDateDesc(records []PersonalRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].AchievedDate > records[j].AchievedDate
	})
}
