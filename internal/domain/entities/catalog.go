package entities

// DefaultTaskCatalog is the built-in task list seeded for every new
// installation. IDs are grouped by category in blocks of one hundred;
// user-created entries continue from the highest existing id.
var DefaultTaskCatalog = []TaskCatalogEntry{
	// Inspection
	{ID: 101, Name: "General Hive Inspection", Category: "Inspection", Common: true},
	{ID: 102, Name: "Queen Check (Present & Laying)", Category: "Inspection", Common: true},
	{ID: 103, Name: "Queen Marking", Category: "Inspection"},
	{ID: 104, Name: "Brood Pattern Inspection", Category: "Inspection", Common: true},
	{ID: 105, Name: "Comb Condition Check", Category: "Inspection"},
	{ID: 106, Name: "Population Assessment", Category: "Inspection", Common: true},
	{ID: 107, Name: "Food Stores Check", Category: "Inspection", Common: true},
	{ID: 108, Name: "Varroa Mite Inspection", Category: "Inspection", Common: true},
	{ID: 109, Name: "Small Hive Beetle Check", Category: "Inspection", Common: true},
	{ID: 110, Name: "Wax Moth Check", Category: "Inspection"},
	{ID: 111, Name: "Disease Inspection (AFB/EFB)", Category: "Inspection"},
	{ID: 112, Name: "Nosema Check", Category: "Inspection"},
	{ID: 113, Name: "Chalkbrood Inspection", Category: "Inspection"},
	{ID: 114, Name: "Entrance Activity Observation", Category: "Inspection", Common: true},
	{ID: 115, Name: "Temperament Assessment", Category: "Inspection"},

	// Feeding
	{ID: 201, Name: "Sugar Syrup 1:1 (Spring Build-up)", Category: "Feeding", Common: true},
	{ID: 202, Name: "Sugar Syrup 2:1 (Fall Prep)", Category: "Feeding", Common: true},
	{ID: 203, Name: "Pollen Substitute", Category: "Feeding"},
	{ID: 204, Name: "Pollen Patty", Category: "Feeding", Common: true},
	{ID: 205, Name: "Fondant Feeding", Category: "Feeding"},
	{ID: 206, Name: "Candy Board", Category: "Feeding"},
	{ID: 207, Name: "Emergency Feeding", Category: "Feeding"},
	{ID: 208, Name: "Protein Supplement", Category: "Feeding"},

	// Treatment
	{ID: 301, Name: "Varroa Treatment - Formic Acid", Category: "Treatment"},
	{ID: 302, Name: "Varroa Treatment - Oxalic Acid", Category: "Treatment"},
	{ID: 303, Name: "Varroa Treatment - Apivar Strips", Category: "Treatment"},
	{ID: 304, Name: "Varroa Treatment - Other", Category: "Treatment"},
	{ID: 305, Name: "Nosema Treatment", Category: "Treatment"},
	{ID: 306, Name: "Small Hive Beetle Treatment", Category: "Treatment"},
	{ID: 307, Name: "Wax Moth Treatment", Category: "Treatment"},
	{ID: 308, Name: "Tracheal Mite Treatment", Category: "Treatment"},

	// Harvest
	{ID: 401, Name: "Honey Harvest", Category: "Harvest", Common: true},
	{ID: 402, Name: "Comb Honey Harvest", Category: "Harvest"},
	{ID: 403, Name: "Wax Collection", Category: "Harvest"},
	{ID: 404, Name: "Propolis Collection", Category: "Harvest"},
	{ID: 405, Name: "Pollen Collection", Category: "Harvest"},
	{ID: 406, Name: "Frame Extraction", Category: "Harvest", Common: true},
	{ID: 407, Name: "Honey Bottling/Packaging", Category: "Harvest"},

	// Maintenance
	{ID: 501, Name: "Add Honey Super", Category: "Maintenance", Common: true},
	{ID: 502, Name: "Remove Honey Super", Category: "Maintenance", Common: true},
	{ID: 503, Name: "Add Brood Box", Category: "Maintenance"},
	{ID: 504, Name: "Replace Old Frames", Category: "Maintenance"},
	{ID: 505, Name: "Add Foundation", Category: "Maintenance"},
	{ID: 506, Name: "Hive Repair/Painting", Category: "Maintenance"},
	{ID: 507, Name: "Stand Repair", Category: "Maintenance"},
	{ID: 508, Name: "Entrance Reducer - Install", Category: "Maintenance", Common: true},
	{ID: 509, Name: "Entrance Reducer - Remove", Category: "Maintenance", Common: true},
	{ID: 510, Name: "Queen Excluder - Install", Category: "Maintenance", Common: true},
	{ID: 511, Name: "Queen Excluder - Remove", Category: "Maintenance", Common: true},
	{ID: 512, Name: "Bottom Board Cleaning", Category: "Maintenance"},
	{ID: 513, Name: "Mouse Guard - Install", Category: "Maintenance", Common: true},
	{ID: 514, Name: "Mouse Guard - Remove", Category: "Maintenance", Common: true},
	{ID: 515, Name: "Ventilation Adjustment", Category: "Maintenance"},

	// Seasonal
	{ID: 601, Name: "Spring Buildup Preparation", Category: "Seasonal"},
	{ID: 602, Name: "Summer Ventilation Setup", Category: "Seasonal"},
	{ID: 603, Name: "Fall Winterization", Category: "Seasonal", Common: true},
	{ID: 604, Name: "Winter Insulation", Category: "Seasonal"},
	{ID: 605, Name: "Spring Cleanup", Category: "Seasonal"},

	// Queen Management
	{ID: 701, Name: "Requeen Colony", Category: "Queen Management"},
	{ID: 702, Name: "Add Queen Cell", Category: "Queen Management"},
	{ID: 703, Name: "Split Colony", Category: "Queen Management"},
	{ID: 704, Name: "Combine Colonies", Category: "Queen Management"},
	{ID: 705, Name: "Swarm Prevention Measures", Category: "Queen Management"},
	{ID: 706, Name: "Swarm Capture", Category: "Queen Management"},
	{ID: 707, Name: "Nuc Creation", Category: "Queen Management"},
	{ID: 708, Name: "Queen Introduction", Category: "Queen Management"},

	// Problems
	{ID: 801, Name: "Queenless Colony Found", Category: "Problems"},
	{ID: 802, Name: "Laying Worker Present", Category: "Problems"},
	{ID: 803, Name: "Robbing Observed", Category: "Problems"},
	{ID: 804, Name: "Absconding Risk", Category: "Problems"},
	{ID: 805, Name: "Disease Quarantine", Category: "Problems"},
	{ID: 806, Name: "Pest Emergency Response", Category: "Problems"},
	{ID: 807, Name: "Weak Colony Identified", Category: "Problems"},
	{ID: 808, Name: "Aggressive Behavior Noted", Category: "Problems"},

	// Records
	{ID: 901, Name: "Hive Weight Measurement", Category: "Records"},
	{ID: 902, Name: "Temperature Check", Category: "Records"},
	{ID: 903, Name: "Humidity Check", Category: "Records"},
	{ID: 904, Name: "Photo Documentation", Category: "Records", Common: true},
	{ID: 905, Name: "Sample Collection", Category: "Records"},
	{ID: 906, Name: "Equipment Inventory", Category: "Records"},
	{ID: 907, Name: "Varroa Mite Count", Category: "Records"},
}
