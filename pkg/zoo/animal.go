package zoo

// Animal is the resource served by the controller.
type Animal struct {
	Name string `json:"name"`
	Age  int    `json:"age"`
}

// AnimalSchema validates request bodies for POST /animals/add.
const AnimalSchema = `{
  "type": "object",
  "required": ["name", "age"],
  "properties": {
    "name": {"type": "string", "minLength": 1, "maxLength": 64},
    "age": {"type": "integer", "minimum": 0, "maximum": 300}
  },
  "additionalProperties": false
}`

// Dog is the fixed animal returned by GET /animals/dog.
var Dog = Animal{Name: "Dog", Age: 12}
