package iterator

// Iterator 有限数据源的迭代器
type Iterator[T any] interface {
	//Next 是否有下一条数据
	Next() bool
	//Value 获取下一条数据
	Value() T
	//Err 迭代中断时的错误
	Err() error
}
