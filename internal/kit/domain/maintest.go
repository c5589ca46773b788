package domain

// SelectMainTest picks the attempt that represents a kit. A single attempt is
// returned as is. With several, a report-ready attempt wins; when preferMaximal
// is set (DNA kits) a report-ready Premium attempt beats any other report-ready
// one. Without a report-ready attempt the first one in list order is used.
func SelectMainTest(tests []Test, preferMaximal bool) (Test, bool) {
	if len(tests) == 0 {
		return Test{}, false
	}
	if len(tests) == 1 {
		return tests[0], true
	}

	if preferMaximal {
		for _, t := range tests {
			if t.Status == TestStatusReportReady && IsMaximalTier(t.Name) {
				return t, true
			}
		}
	}
	for _, t := range tests {
		if t.Status == TestStatusReportReady {
			return t, true
		}
	}
	return tests[0], true
}

// latestActiveTest returns the first attempt that has not been terminated.
func latestActiveTest(tests []Test) (Test, bool) {
	for _, t := range tests {
		if t.Status != TestStatusTerminated {
			return t, true
		}
	}
	return Test{}, false
}

// mainTestDefinition classifies the main test picked with preferMaximal.
func mainTestDefinition(tests []Test, preferMaximal bool) (TestDefinition, bool) {
	t, ok := SelectMainTest(tests, preferMaximal)
	if !ok {
		return "", false
	}
	return ClassifyDefinition(t.Name)
}
