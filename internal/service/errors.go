package service

import "errors"

// 业务错误。handler 层用 errors.Is 匹配后映射到HTTP状态码。
var (
	// ErrNotFound 引用的工单/机器/花样/物料不存在
	ErrNotFound = errors.New("记录不存在")

	// ErrDesignNotApproved 花样未批准，不能投产
	ErrDesignNotApproved = errors.New("花样未批准，不能投产")

	// ErrMachineIncompatible 机器色架不支持所需线色
	ErrMachineIncompatible = errors.New("机器不支持所需线色")

	// ErrCapacityExceeded 针数超出机器产能
	ErrCapacityExceeded = errors.New("针数超出机器产能")

	// ErrInvalidTransition 非法的工单状态转换
	ErrInvalidTransition = errors.New("工单状态不允许该操作")

	// ErrInsufficientStock 库存不足，余额保持不变
	ErrInsufficientStock = errors.New("库存不足")

	// ErrInvalidQuantity 数量必须为正数
	ErrInvalidQuantity = errors.New("数量必须大于0")

	// ErrInvalidStatus 状态值不在枚举范围内
	ErrInvalidStatus = errors.New("无效的状态值")
)
