package catalog

var both = []Level{LevelGCSE, LevelALevel}

var subjects = []Subject{
	{ID: "maths", Name: "Maths", Levels: both},
	{ID: "physics", Name: "Physics", Levels: both},
	{ID: "chemistry", Name: "Chemistry", Levels: both},
	{ID: "biology", Name: "Biology", Levels: both},
	{ID: "computer-science", Name: "Computer Science", Levels: both},
	{ID: "economics", Name: "Economics", Levels: []Level{LevelALevel}},
}

var topics = buildTopics(map[string][]topicSeed{
	"maths": {
		{"Algebraic Expressions", both},
		{"Quadratic Equations", both},
		{"Simultaneous Equations", both},
		{"Trigonometry", both},
		{"Probability", both},
		{"Vectors", both},
		{"Ratio and Proportion", []Level{LevelGCSE}},
		{"Circle Theorems", []Level{LevelGCSE}},
		{"Differentiation", []Level{LevelALevel}},
		{"Integration", []Level{LevelALevel}},
		{"Sequences and Series", []Level{LevelALevel}},
		{"Exponentials and Logarithms", []Level{LevelALevel}},
	},
	"physics": {
		{"Forces and Motion", both},
		{"Energy", both},
		{"Electricity", both},
		{"Waves", both},
		{"Magnetism and Electromagnetism", both},
		{"Particle Model of Matter", []Level{LevelGCSE}},
		{"Atomic Structure", []Level{LevelGCSE}},
		{"Quantum Phenomena", []Level{LevelALevel}},
		{"Circular Motion", []Level{LevelALevel}},
		{"Thermal Physics", []Level{LevelALevel}},
	},
	"chemistry": {
		{"Atomic Structure and the Periodic Table", both},
		{"Bonding and Structure", both},
		{"Quantitative Chemistry", both},
		{"Energy Changes", both},
		{"Rates of Reaction", both},
		{"Organic Chemistry", both},
		{"Chemical Analysis", []Level{LevelGCSE}},
		{"Equilibria", []Level{LevelALevel}},
		{"Acids and Bases", []Level{LevelALevel}},
		{"Thermodynamics", []Level{LevelALevel}},
	},
	"biology": {
		{"Cell Biology", both},
		{"Organisation", both},
		{"Infection and Response", both},
		{"Bioenergetics", both},
		{"Homeostasis and Response", both},
		{"Inheritance, Variation and Evolution", both},
		{"Ecology", both},
		{"Gene Expression", []Level{LevelALevel}},
	},
	"computer-science": {
		{"Algorithms", both},
		{"Programming Fundamentals", both},
		{"Data Representation", both},
		{"Computer Networks", both},
		{"Boolean Logic", both},
		{"Cyber Security", []Level{LevelGCSE}},
		{"Data Structures", []Level{LevelALevel}},
		{"Theory of Computation", []Level{LevelALevel}},
	},
	"economics": {
		{"Market Failure", []Level{LevelALevel}},
		{"Elasticity", []Level{LevelALevel}},
		{"Macroeconomic Policy", []Level{LevelALevel}},
		{"The Labour Market", []Level{LevelALevel}},
	},
})

type topicSeed struct {
	name   string
	levels []Level
}

// subjectOrder keeps topic output stable regardless of map iteration.
var subjectOrder = []string{"maths", "physics", "chemistry", "biology", "computer-science", "economics"}

func buildTopics(seeds map[string][]topicSeed) []Topic {
	var out []Topic
	for _, subj := range subjectOrder {
		for _, s := range seeds[subj] {
			out = append(out, Topic{
				ID:        Slugify(s.name),
				Name:      s.name,
				SubjectID: subj,
				Levels:    s.levels,
			})
		}
	}
	return out
}
