package curriculum

// Difficulty tags used on resources. Matching is exact and case-sensitive.
const (
	Beginner     = "beginner"
	Intermediate = "intermediate"
	Advanced     = "advanced"
	Expert       = "expert"
)

// Course is an ordered sequence of topics loaded from one YAML file.
type Course struct {
	ID     string  `yaml:"id" json:"id"`
	Title  string  `yaml:"title" json:"title"`
	Topics []Topic `yaml:"topics" json:"topics"`
}

// Topic is one unit of a course.
type Topic struct {
	ID                string     `yaml:"id" json:"id"`
	Title             string     `yaml:"title" json:"title"`
	Prerequisites     []string   `yaml:"prerequisites" json:"prerequisites,omitempty"`
	KeyConcepts       []string   `yaml:"key_concepts" json:"keyConcepts,omitempty"`
	Resources         []Resource `yaml:"resources" json:"resources,omitempty"`
	Quizzes           []Activity `yaml:"quizzes" json:"quizzes,omitempty"`
	Exercises         []Activity `yaml:"exercises" json:"exercises,omitempty"`
	AdvancedExercises []Activity `yaml:"advanced_exercises" json:"advancedExercises,omitempty"`
}

// Resource is a learning material attached to a topic.
type Resource struct {
	ID         string `yaml:"id" json:"id"`
	Title      string `yaml:"title" json:"title"`
	Type       string `yaml:"type" json:"type,omitempty"`
	URL        string `yaml:"url" json:"url,omitempty"`
	Difficulty string `yaml:"difficulty" json:"difficulty,omitempty"`
}

// Activity is a quiz or exercise attached to a topic.
type Activity struct {
	ID    string `yaml:"id" json:"id"`
	Title string `yaml:"title" json:"title"`
}

// DisplayTitle returns the title, or the ID when the title is blank.
func (t Topic) DisplayTitle() string {
	if t.Title != "" {
		return t.Title
	}
	return t.ID
}

// HasPrerequisite reports whether id is a declared prerequisite of t.
func (t Topic) HasPrerequisite(id string) bool {
	for _, p := range t.Prerequisites {
		if p == id {
			return true
		}
	}
	return false
}

// IndexOf returns the position of topic id in the course, or -1.
func (c Course) IndexOf(id string) int {
	for i, t := range c.Topics {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// Topic returns the topic with the given id.
func (c Course) Topic(id string) (Topic, bool) {
	if i := c.IndexOf(id); i >= 0 {
		return c.Topics[i], true
	}
	return Topic{}, false
}

// Catalog is the ordered set of courses handed to the engine.
type Catalog []Course

// Course returns the course with the given id.
func (c Catalog) Course(id string) (Course, bool) {
	for _, course := range c {
		if course.ID == id {
			return course, true
		}
	}
	return Course{}, false
}

// Topics returns every topic of every course in catalog order.
func (c Catalog) Topics() []Topic {
	var out []Topic
	for _, course := range c {
		out = append(out, course.Topics...)
	}
	return out
}

// FindTopic looks a topic up across all courses.
func (c Catalog) FindTopic(id string) (Topic, bool) {
	for _, course := range c {
		if t, ok := course.Topic(id); ok {
			return t, true
		}
	}
	return Topic{}, false
}
